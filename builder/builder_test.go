package builder_test

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"path/filepath"
	"regexp"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	bridge "github.com/solstice-labs/bridge"
	"github.com/solstice-labs/bridge/builder"
	"github.com/solstice-labs/bridge/config"
	"github.com/solstice-labs/bridge/errors"
)

const (
	fromAddress = "4ixwJt7DDGUV3xxi3mvZuEjLn4kDC39ogknnHQ4Crv5a"
	toAddress   = "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"
	blockhash   = "Hzn3n914JaSpnxo5mBbmuCDmGL6mxWN9Ac2HzEXFSGtb"
)

type stubSource struct {
	hash solana.Hash
	err  error
}

func (s *stubSource) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	return s.hash, s.err
}

func testProfile(t *testing.T) *config.NetworkProfile {
	t.Setenv(config.ConfigEnv, filepath.Join(t.TempDir(), "missing.yaml"))
	profile, err := config.Resolve(config.Testnet)
	require.NoError(t, err)
	return profile
}

func testInput() *builder.TxInput {
	return &builder.TxInput{RecentBlockHash: solana.MustHashFromBase58(blockhash)}
}

func mustAmount(t *testing.T, s string) bridge.AmountHumanReadable {
	amount, err := bridge.NewAmountHumanReadableFromStr(s)
	require.NoError(t, err)
	return amount
}

func decodeTx(t *testing.T, serialized string) *solana.Transaction {
	raw, err := base64.StdEncoding.DecodeString(serialized)
	require.NoError(t, err)
	solTx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	require.NoError(t, err)
	return solTx
}

// lamports from a system transfer instruction: 4-byte instruction index,
// then a little-endian u64
func transferLamports(t *testing.T, data []byte) uint64 {
	require.GreaterOrEqual(t, len(data), 12)
	require.EqualValues(t, 2, binary.LittleEndian.Uint32(data[:4]))
	return binary.LittleEndian.Uint64(data[4:12])
}

func TestBuildNativeTransfer(t *testing.T) {
	profile := testProfile(t)
	b := builder.New(profile, &stubSource{})

	built, err := b.BuildWithInput(bridge.TransferRequest{
		SourceAddress:      fromAddress,
		DestinationAddress: toAddress,
		Token:              bridge.TokenNative,
		Amount:             mustAmount(t, "1.5"),
	}, testInput())
	require.NoError(t, err)

	solTx := decodeTx(t, built.SerializedTransaction)
	require.Empty(t, solTx.Signatures, "must serialize unsigned")
	require.Equal(t, blockhash, solTx.Message.RecentBlockhash.String())

	// exactly two instructions: principal then relay fee, both system
	// transfers to the vault
	require.Len(t, solTx.Message.Instructions, 2)
	for _, inst := range solTx.Message.Instructions {
		program, err := solTx.Message.Program(inst.ProgramIDIndex)
		require.NoError(t, err)
		require.Equal(t, solana.SystemProgramID, program)
	}
	principal := solTx.Message.Instructions[0]
	fee := solTx.Message.Instructions[1]
	require.EqualValues(t, 1_500_000_000, transferLamports(t, principal.Data))
	require.EqualValues(t, 1_000_000, transferLamports(t, fee.Data))

	// both paid by the source account, which is also the fee payer
	payer := solTx.Message.AccountKeys[0]
	require.Equal(t, fromAddress, payer.String())
}

func TestBuildTokenTransfer(t *testing.T) {
	profile := testProfile(t)
	b := builder.New(profile, &stubSource{})

	built, err := b.BuildWithInput(bridge.TransferRequest{
		SourceAddress:      fromAddress,
		DestinationAddress: toAddress,
		Token:              bridge.TokenStable,
		Amount:             mustAmount(t, "10"),
	}, testInput())
	require.NoError(t, err)

	solTx := decodeTx(t, built.SerializedTransaction)
	require.Empty(t, solTx.Signatures)

	// create-vault-account, token transfer, then the native relay fee
	require.Len(t, solTx.Message.Instructions, 3)

	programs := make([]solana.PublicKey, 0, 3)
	for _, inst := range solTx.Message.Instructions {
		program, err := solTx.Message.Program(inst.ProgramIDIndex)
		require.NoError(t, err)
		programs = append(programs, program)
	}
	require.Equal(t, solana.SPLAssociatedTokenAccountProgramID, programs[0])
	require.Equal(t, solana.TokenProgramID, programs[1])
	require.Equal(t, solana.SystemProgramID, programs[2])

	// idempotent create variant
	require.Equal(t, []byte{1}, []byte(solTx.Message.Instructions[0].Data))

	require.EqualValues(t, 1_000_000, transferLamports(t, solTx.Message.Instructions[2].Data))
}

func TestBuildIsDeterministic(t *testing.T) {
	profile := testProfile(t)
	b := builder.New(profile, &stubSource{})
	req := bridge.TransferRequest{
		SourceAddress:      fromAddress,
		DestinationAddress: toAddress,
		Token:              bridge.TokenStable,
		Amount:             mustAmount(t, "10"),
	}

	first, err := b.BuildWithInput(req, testInput())
	require.NoError(t, err)
	second, err := b.BuildWithInput(req, testInput())
	require.NoError(t, err)

	// same request and input give byte-identical transactions; only the
	// correlation ids differ
	require.Equal(t, first.SerializedTransaction, second.SerializedTransaction)
	require.NotEqual(t, first.CorrelationID, second.CorrelationID)
}

func TestBuildValidation(t *testing.T) {
	profile := testProfile(t)
	b := builder.New(profile, &stubSource{err: errors.NetworkUnavailablef("must not be called")})

	vectors := []struct {
		name   string
		req    bridge.TransferRequest
		status errors.Status
	}{
		{
			name: "bad source address",
			req: bridge.TransferRequest{
				SourceAddress:      "not-base58-0OIl",
				DestinationAddress: toAddress,
				Token:              bridge.TokenNative,
				Amount:             mustAmount(t, "1"),
			},
			status: errors.InvalidAddress,
		},
		{
			name: "destination address on wrong ledger",
			req: bridge.TransferRequest{
				SourceAddress:      fromAddress,
				DestinationAddress: fromAddress,
				Token:              bridge.TokenNative,
				Amount:             mustAmount(t, "1"),
			},
			status: errors.InvalidAddress,
		},
		{
			name: "zero amount",
			req: bridge.TransferRequest{
				SourceAddress:      fromAddress,
				DestinationAddress: toAddress,
				Token:              bridge.TokenNative,
				Amount:             mustAmount(t, "0"),
			},
			status: errors.InvalidAmount,
		},
		{
			name: "negative amount",
			req: bridge.TransferRequest{
				SourceAddress:      fromAddress,
				DestinationAddress: toAddress,
				Token:              bridge.TokenStable,
				Amount:             mustAmount(t, "-2"),
			},
			status: errors.InvalidAmount,
		},
		{
			name: "below smallest unit",
			req: bridge.TransferRequest{
				SourceAddress:      fromAddress,
				DestinationAddress: toAddress,
				Token:              bridge.TokenStable,
				Amount:             mustAmount(t, "0.0000001"),
			},
			status: errors.InvalidAmount,
		},
		{
			name: "unsupported token",
			req: bridge.TransferRequest{
				SourceAddress:      fromAddress,
				DestinationAddress: toAddress,
				Token:              bridge.Token("DOGE"),
				Amount:             mustAmount(t, "1"),
			},
			status: errors.UnsupportedToken,
		},
	}
	for _, v := range vectors {
		t.Run(v.name, func(t *testing.T) {
			// validation must fail before any network call: the stub
			// source errors if reached
			built, err := b.Build(context.Background(), v.req)
			require.Nil(t, built)
			require.Error(t, err)
			require.Equal(t, v.status, errors.StatusOf(err))
		})
	}
}

func TestBuildFetchesBlockhash(t *testing.T) {
	profile := testProfile(t)
	b := builder.New(profile, &stubSource{hash: solana.MustHashFromBase58(blockhash)})

	built, err := b.Build(context.Background(), bridge.TransferRequest{
		SourceAddress:      fromAddress,
		DestinationAddress: toAddress,
		Token:              bridge.TokenNative,
		Amount:             mustAmount(t, "1"),
	})
	require.NoError(t, err)
	solTx := decodeTx(t, built.SerializedTransaction)
	require.Equal(t, blockhash, solTx.Message.RecentBlockhash.String())
	require.NotZero(t, built.EstimatedArrival)
	require.NotEmpty(t, built.Instructions)
}

func TestBuildNetworkError(t *testing.T) {
	profile := testProfile(t)
	b := builder.New(profile, &stubSource{err: errors.NetworkUnavailablef("rpc down")})

	_, err := b.Build(context.Background(), bridge.TransferRequest{
		SourceAddress:      fromAddress,
		DestinationAddress: toAddress,
		Token:              bridge.TokenNative,
		Amount:             mustAmount(t, "1"),
	})
	require.Error(t, err)
	require.Equal(t, errors.NetworkUnavailable, errors.StatusOf(err))
}

func TestNewCorrelationID(t *testing.T) {
	pattern := regexp.MustCompile(`^bridge_\d+_[a-z0-9]+$`)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := builder.NewCorrelationID()
		require.Regexp(t, pattern, id)
		require.False(t, seen[id], "correlation ids must not repeat")
		seen[id] = true
	}
}
