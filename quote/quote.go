package quote

import (
	bridge "github.com/solstice-labs/bridge"
	"github.com/solstice-labs/bridge/config"
	"github.com/solstice-labs/bridge/errors"
)

// Engine computes fee-adjusted quotes for bridging a token. It is a pure
// function of the active network profile and the caller's inputs; no I/O.
type Engine struct {
	profile *config.NetworkProfile
}

func New(profile *config.NetworkProfile) *Engine {
	return &Engine{profile: profile}
}

// Quote returns the estimated receive amount and fees for bridging
// `amount` of `token`. All arithmetic happens in the asset's smallest
// unit; the decimal conversion is confined to this boundary.
//
// The relay fee is charged in the native coin. When the transferred
// asset is itself the native coin the fee is deducted from the amount;
// otherwise the receive amount equals the requested amount and the fee
// is paid alongside it.
func (e *Engine) Quote(token bridge.Token, amount bridge.AmountHumanReadable) (*bridge.Quote, error) {
	if amount.Sign() <= 0 {
		return nil, errors.InvalidAmountf("amount must be positive, got %s", amount)
	}
	tokenCfg, ok := e.profile.Token(token)
	if !ok {
		return nil, errors.UnsupportedTokenf("token %s has no destination mapping in the %s profile", token, e.profile.Environment)
	}

	units := amount.ToBlockchain(tokenCfg.Decimals)
	if units.IsZero() {
		return nil, errors.InvalidAmountf("amount %s is below the smallest unit of %s", amount, token)
	}

	nativeDecimals := e.profile.NativeDecimals()
	feeUnits := e.profile.RelayFee.ToBlockchain(nativeDecimals)

	receiveUnits := units
	if token == bridge.TokenNative {
		receiveUnits = units.Sub(&feeUnits)
		if receiveUnits.Sign() <= 0 {
			return nil, errors.InvalidAmountf("amount %s does not cover the relay fee of %s", amount, e.profile.RelayFee)
		}
	}

	return &bridge.Quote{
		Token:                   token,
		RequestedAmount:         units.ToHuman(tokenCfg.Decimals),
		EstimatedReceiveAmount:  receiveUnits.ToHuman(tokenCfg.Decimals),
		RelayFee:                feeUnits.ToHuman(nativeDecimals),
		DestinationGasFee:       e.profile.DestinationGasFee,
		EstimatedSettlementTime: e.profile.SettlementTime.Duration(),
		DestinationTokenAddress: tokenCfg.DestinationContract,
	}, nil
}
