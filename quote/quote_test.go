package quote_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	bridge "github.com/solstice-labs/bridge"
	"github.com/solstice-labs/bridge/config"
	"github.com/solstice-labs/bridge/errors"
	"github.com/solstice-labs/bridge/quote"
)

func testProfile(t *testing.T) *config.NetworkProfile {
	t.Setenv(config.ConfigEnv, filepath.Join(t.TempDir(), "missing.yaml"))
	profile, err := config.Resolve(config.Testnet)
	require.NoError(t, err)
	return profile
}

func mustAmount(t *testing.T, s string) bridge.AmountHumanReadable {
	amount, err := bridge.NewAmountHumanReadableFromStr(s)
	require.NoError(t, err)
	return amount
}

func TestQuoteStableToken(t *testing.T) {
	engine := quote.New(testProfile(t))

	q, err := engine.Quote(bridge.TokenStable, mustAmount(t, "10"))
	require.NoError(t, err)
	// fee is charged in the native coin, so the receive amount is whole
	require.Equal(t, "10", q.RequestedAmount.String())
	require.Equal(t, "10", q.EstimatedReceiveAmount.String())
	require.Equal(t, "0.001", q.RelayFee.String())
	require.Equal(t, "0.0003", q.DestinationGasFee.String())
	require.NotEmpty(t, q.DestinationTokenAddress)
	require.NotZero(t, q.EstimatedSettlementTime)
}

func TestQuoteNativeDeductsFee(t *testing.T) {
	engine := quote.New(testProfile(t))

	q, err := engine.Quote(bridge.TokenNative, mustAmount(t, "1"))
	require.NoError(t, err)
	require.Equal(t, "1", q.RequestedAmount.String())
	require.Equal(t, "0.999", q.EstimatedReceiveAmount.String())
	require.Equal(t, "0.001", q.RelayFee.String())

	// receive + fee reconstructs the requested amount exactly
	sum := q.EstimatedReceiveAmount.Add(q.RelayFee)
	require.Equal(t, q.RequestedAmount.String(), sum.String())
}

func TestQuoteNativeBelowFee(t *testing.T) {
	engine := quote.New(testProfile(t))

	// equal to the fee: nothing would arrive
	_, err := engine.Quote(bridge.TokenNative, mustAmount(t, "0.001"))
	require.Error(t, err)
	require.Equal(t, errors.InvalidAmount, errors.StatusOf(err))

	_, err = engine.Quote(bridge.TokenNative, mustAmount(t, "0.0001"))
	require.Error(t, err)
	require.Equal(t, errors.InvalidAmount, errors.StatusOf(err))
}

func TestQuoteInvalidAmount(t *testing.T) {
	engine := quote.New(testProfile(t))

	for _, raw := range []string{"0", "-1"} {
		_, err := engine.Quote(bridge.TokenStable, mustAmount(t, raw))
		require.Error(t, err, raw)
		require.Equal(t, errors.InvalidAmount, errors.StatusOf(err))
	}

	// below the stable token's smallest unit (6 decimals)
	_, err := engine.Quote(bridge.TokenStable, mustAmount(t, "0.0000001"))
	require.Error(t, err)
	require.Equal(t, errors.InvalidAmount, errors.StatusOf(err))
}

func TestQuoteUnsupportedToken(t *testing.T) {
	engine := quote.New(testProfile(t))

	_, err := engine.Quote(bridge.Token("DOGE"), mustAmount(t, "1"))
	require.Error(t, err)
	require.Equal(t, errors.UnsupportedToken, errors.StatusOf(err))
}

func TestQuoteIsDeterministic(t *testing.T) {
	engine := quote.New(testProfile(t))

	first, err := engine.Quote(bridge.TokenStable, mustAmount(t, "2.5"))
	require.NoError(t, err)
	second, err := engine.Quote(bridge.TokenStable, mustAmount(t, "2.5"))
	require.NoError(t, err)
	require.Equal(t, first, second)
}
