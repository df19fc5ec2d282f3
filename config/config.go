package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	bridge "github.com/solstice-labs/bridge"
	"github.com/solstice-labs/bridge/errors"
)

// ConfigEnv overrides the config file location.
const ConfigEnv = "BRIDGE_CONFIG"

// Environment selects which network profile is active. It is chosen once
// at startup and must not change mid-transfer.
type Environment string

const (
	Testnet Environment = "test"
	Mainnet Environment = "main"
)

func ParseEnvironment(raw string) (Environment, error) {
	switch strings.ToLower(raw) {
	case "test", "testnet", "devnet":
		return Testnet, nil
	case "main", "mainnet":
		return Mainnet, nil
	}
	return Environment(""), errors.Configurationf("unknown environment: %q", raw)
}

// Destination ledger kinds a profile can validate addresses for.
const (
	DestinationEVM = "evm"
)

// TokenConfig maps a bridgeable token onto both ledgers.
type TokenConfig struct {
	// Mint is the token's source-ledger mint address. Empty for the
	// native coin.
	Mint bridge.ContractAddress `yaml:"mint,omitempty"`
	// DestinationContract is the token's contract on the destination
	// ledger. A token without one cannot be bridged.
	DestinationContract bridge.ContractAddress `yaml:"destination_contract"`
	Decimals            int32                  `yaml:"decimals"`
}

// NetworkProfile holds the per-environment addresses and endpoints the
// engine needs. Immutable after process start.
type NetworkProfile struct {
	Environment Environment `yaml:"environment"`
	// RPCURL is the source-ledger JSON-RPC endpoint.
	RPCURL string `yaml:"rpc_url"`
	// BridgeProgram is the bridge program address on the source ledger.
	BridgeProgram bridge.Address `yaml:"bridge_program"`
	// RelayerProgram is the relayer program address on the source ledger.
	RelayerProgram bridge.Address `yaml:"relayer_program"`
	// FeeReceiver is the vault account receiving both the bridged
	// principal and the relay fee, as separate instructions.
	FeeReceiver bridge.Address `yaml:"fee_receiver"`
	// DestinationChain selects the destination address format.
	DestinationChain string `yaml:"destination_chain"`
	// IndexerURL is the relay network's status API, if one is available.
	IndexerURL string `yaml:"indexer_url,omitempty"`
	// RelayFee is charged in the source ledger's native coin.
	RelayFee bridge.AmountHumanReadable `yaml:"relay_fee"`
	// DestinationGasFee is disclosed in quotes but paid by the relay.
	DestinationGasFee bridge.AmountHumanReadable `yaml:"destination_gas_fee"`
	// SettlementTime is the expected end-to-end settlement duration.
	SettlementTime Duration `yaml:"settlement_time"`

	Tokens map[bridge.Token]TokenConfig `yaml:"tokens"`
}

// Duration is a time.Duration that (un)marshals as a string like "45s".
type Duration time.Duration

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(node.Value))
	if err != nil {
		return fmt.Errorf("invalid duration: %v", err)
	}
	*d = Duration(parsed)
	return nil
}

// Token returns the configuration for a bridgeable token, if the profile
// supports it.
func (p *NetworkProfile) Token(token bridge.Token) (TokenConfig, bool) {
	cfg, ok := p.Tokens[token]
	return cfg, ok
}

// NativeDecimals returns the native coin's decimal count.
func (p *NetworkProfile) NativeDecimals() int32 {
	if cfg, ok := p.Tokens[bridge.TokenNative]; ok {
		return cfg.Decimals
	}
	// SOL
	return 9
}

// ValidateDestinationAddress checks an address against the destination
// ledger's format. The format is profile data, not engine code, so that
// additional ledger pairs only require configuration.
func (p *NetworkProfile) ValidateDestinationAddress(address string) error {
	switch p.DestinationChain {
	case DestinationEVM:
		if !common.IsHexAddress(address) {
			return errors.InvalidAddressf("not a valid %s address: %q", p.DestinationChain, address)
		}
		return nil
	}
	return errors.Configurationf("no address validator for destination chain %q", p.DestinationChain)
}

// ValidateSourceAddress checks that an address parses as a source-ledger
// public key.
func (p *NetworkProfile) ValidateSourceAddress(address bridge.Address) error {
	if _, err := solana.PublicKeyFromBase58(string(address)); err != nil {
		return errors.InvalidAddressf("not a valid source ledger address: %q: %v", address, err)
	}
	return nil
}

// Validate fails with a ConfigurationError when required profile fields
// are absent. Called once at resolve time; the engine assumes a valid
// profile afterwards.
func (p *NetworkProfile) Validate() error {
	if p.RPCURL == "" {
		return errors.Configurationf("profile %s: missing rpc_url", p.Environment)
	}
	if p.BridgeProgram == "" {
		return errors.Configurationf("profile %s: missing bridge_program", p.Environment)
	}
	if p.RelayerProgram == "" {
		return errors.Configurationf("profile %s: missing relayer_program", p.Environment)
	}
	if p.FeeReceiver == "" {
		return errors.Configurationf("profile %s: missing fee_receiver", p.Environment)
	}
	if err := p.ValidateSourceAddress(p.FeeReceiver); err != nil {
		return errors.Configurationf("profile %s: fee_receiver: %v", p.Environment, err)
	}
	if p.DestinationChain == "" {
		return errors.Configurationf("profile %s: missing destination_chain", p.Environment)
	}
	if p.RelayFee.Sign() <= 0 {
		return errors.Configurationf("profile %s: relay_fee must be positive", p.Environment)
	}
	if len(p.Tokens) == 0 {
		return errors.Configurationf("profile %s: no tokens configured", p.Environment)
	}
	for token, cfg := range p.Tokens {
		if cfg.DestinationContract == "" {
			return errors.Configurationf("profile %s: token %s: missing destination_contract", p.Environment, token)
		}
		if cfg.Decimals <= 0 {
			return errors.Configurationf("profile %s: token %s: missing decimals", p.Environment, token)
		}
		if token != bridge.TokenNative && cfg.Mint == "" {
			return errors.Configurationf("profile %s: token %s: missing mint", p.Environment, token)
		}
	}
	return nil
}

func getViper() *viper.Viper {
	// new instance of viper to avoid conflicts with embedding applications
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// If the config location env is set, use that.
	if path := os.Getenv(ConfigEnv); path != "" {
		v.SetConfigFile(path)
	}

	// otherwise, prioritize current path or parent
	v.AddConfigPath(".")
	v.AddConfigPath("..")

	return v
}

// Resolve returns the network profile for an environment: the compiled-in
// defaults, overridden by the `bridge.<environment>` section of an
// optional config.yaml. The result is validated before use.
func Resolve(env Environment) (*NetworkProfile, error) {
	profile, ok := defaultProfiles[env]
	if !ok {
		return nil, errors.Configurationf("no default profile for environment %q", env)
	}
	// copy so callers can never mutate the defaults
	resolved := profile
	resolved.Tokens = make(map[bridge.Token]TokenConfig, len(profile.Tokens))
	for token, cfg := range profile.Tokens {
		resolved.Tokens[token] = cfg
	}

	v := getViper()
	if err := v.ReadInConfig(); err != nil {
		msg := strings.ToLower(err.Error())
		if !strings.Contains(msg, "no such file") && !strings.Contains(msg, "not found in") {
			return nil, errors.Configurationf("reading config file: %v", err)
		}
		// no config file: defaults only
	} else {
		// viper does not support partial deserialization into custom
		// yaml types, so re-serialize the section and parse again.
		section := fmt.Sprintf("bridge.%s", env)
		if asMap := v.GetStringMap(section); len(asMap) > 0 {
			bz, err := yaml.Marshal(asMap)
			if err != nil {
				return nil, errors.Configurationf("encoding config section %s: %v", section, err)
			}
			if err := yaml.Unmarshal(bz, &resolved); err != nil {
				return nil, errors.Configurationf("parsing config section %s: %v", section, err)
			}
		}
	}

	resolved.Environment = env
	if err := resolved.Validate(); err != nil {
		return nil, err
	}
	return &resolved, nil
}
