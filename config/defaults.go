package config

import (
	"time"

	bridge "github.com/solstice-labs/bridge"
)

// Compiled-in profiles. A config.yaml may override individual fields,
// but the set of supported environments is fixed.
var defaultProfiles = map[Environment]NetworkProfile{
	Testnet: {
		Environment:       Testnet,
		RPCURL:            "https://api.devnet.solana.com",
		BridgeProgram:     "Hzn3n914JaSpnxo5mBbmuCDmGL6mxWN9Ac2HzEXFSGtb",
		RelayerProgram:    "BWbmXj5ckAaWCAtzMZ97qnJhBAKegoXtgNrv9BUpAB11",
		FeeReceiver:       "21yrAb33AQtNB43XWm2X9uKMXnTq8u9Wpzxzn8ZHEZBu",
		DestinationChain:  DestinationEVM,
		IndexerURL:        "https://indexer.testnet.solsticebridge.io",
		RelayFee:          bridge.NewAmountHumanReadableFromFloat(0.001),
		DestinationGasFee: bridge.NewAmountHumanReadableFromFloat(0.0003),
		SettlementTime:    Duration(45 * time.Second),
		Tokens: map[bridge.Token]TokenConfig{
			bridge.TokenNative: {
				DestinationContract: "0xc778417E063141139Fce010982780140Aa0cD5Ab",
				Decimals:            9,
			},
			bridge.TokenStable: {
				Mint:                "4zMMC9srt5Ri5X14GAgXhaHii3GnPAEERYPJgZJDncDU",
				DestinationContract: "0x07865c6E87B9F70255377e024ace6630C1Eaa37F",
				Decimals:            6,
			},
		},
	},
	Mainnet: {
		Environment:       Mainnet,
		RPCURL:            "https://api.mainnet-beta.solana.com",
		BridgeProgram:     "5VCwKtCXgCJ6kit5FybXjvriW3xELsFDhYrPSqtJNmcD",
		RelayerProgram:    "CMNyyCXkAQ5cfFS2zQEg6YPzd8fpHvMFbbbmUfjoPp1s",
		FeeReceiver:       "Hrb916EihPAN4T6xad9aVbrd5PfYmiJpvwLKA9XmgcGV",
		DestinationChain:  DestinationEVM,
		IndexerURL:        "https://indexer.solsticebridge.io",
		RelayFee:          bridge.NewAmountHumanReadableFromFloat(0.001),
		DestinationGasFee: bridge.NewAmountHumanReadableFromFloat(0.0003),
		SettlementTime:    Duration(45 * time.Second),
		Tokens: map[bridge.Token]TokenConfig{
			bridge.TokenNative: {
				DestinationContract: "0xD31a59c85aE9D8edEFeC411D448f90841571b89c",
				Decimals:            9,
			},
			bridge.TokenStable: {
				Mint:                "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
				DestinationContract: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
				Decimals:            6,
			},
		},
	},
}
