package builder

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/sirupsen/logrus"

	bridge "github.com/solstice-labs/bridge"
	"github.com/solstice-labs/bridge/builder/instructions/ata"
	"github.com/solstice-labs/bridge/config"
	"github.com/solstice-labs/bridge/errors"
)

// FinalitySource provides the latest finality checkpoint of the source
// ledger. Implemented by client.Client; kept narrow so the builder can
// be exercised without a network.
type FinalitySource interface {
	LatestBlockhash(ctx context.Context) (solana.Hash, error)
}

// TxBuilder constructs unsigned source-ledger transactions for bridge
// transfers. It never holds a key and never signs; the serialized bytes
// are handed to an external signer.
type TxBuilder struct {
	profile *config.NetworkProfile
	source  FinalitySource
}

func New(profile *config.NetworkProfile, source FinalitySource) *TxBuilder {
	return &TxBuilder{profile: profile, source: source}
}

// Build validates the request, fetches the latest blockhash, and
// assembles the unsigned transfer. Validation failures are reported
// before any network call is made. Calling Build twice with the same
// request yields two independent, equally valid transactions; the caller
// is responsible for submitting at most one.
func (b *TxBuilder) Build(ctx context.Context, req bridge.TransferRequest) (*bridge.BuiltTransfer, error) {
	if err := b.ValidateRequest(req); err != nil {
		return nil, err
	}
	input, err := b.FetchTxInput(ctx)
	if err != nil {
		return nil, err
	}
	return b.BuildWithInput(req, input)
}

// FetchTxInput performs the builder's one network round trip.
func (b *TxBuilder) FetchTxInput(ctx context.Context) (*TxInput, error) {
	hash, err := b.source.LatestBlockhash(ctx)
	if err != nil {
		if errors.IsRetryable(err) {
			return nil, err
		}
		return nil, errors.NetworkUnavailablef("could not fetch latest blockhash: %v", err)
	}
	return &TxInput{
		RecentBlockHash: hash,
		Timestamp:       time.Now().Unix(),
	}, nil
}

// ValidateRequest checks the transfer request against the data-model
// invariants. No I/O.
func (b *TxBuilder) ValidateRequest(req bridge.TransferRequest) error {
	if err := b.profile.ValidateSourceAddress(req.SourceAddress); err != nil {
		return err
	}
	if err := b.profile.ValidateDestinationAddress(req.DestinationAddress); err != nil {
		return err
	}
	if req.Amount.Sign() <= 0 {
		return errors.InvalidAmountf("amount must be positive, got %s", req.Amount)
	}
	tokenCfg, ok := b.profile.Token(req.Token)
	if !ok {
		return errors.UnsupportedTokenf("token %s has no destination mapping in the %s profile", req.Token, b.profile.Environment)
	}
	units := req.Amount.ToBlockchain(tokenCfg.Decimals)
	if units.IsZero() {
		return errors.InvalidAmountf("amount %s is below the smallest unit of %s", req.Amount, req.Token)
	}
	return nil
}

// BuildWithInput assembles the unsigned transaction from a validated
// request and a previously fetched TxInput. Deterministic: the same
// request and input always produce the same instruction sequence.
//
// Instruction order is fixed:
//  1. (tokens only) idempotent create of the vault's associated token
//     account, so the transfer cannot fail on a missing account;
//  2. the principal transfer to the vault, in smallest units;
//  3. the relay-fee transfer in the native coin -- always a separate
//     instruction, even for native transfers, so relay accounting can
//     tell principal from fee by line item.
func (b *TxBuilder) BuildWithInput(req bridge.TransferRequest, input *TxInput) (*bridge.BuiltTransfer, error) {
	if err := b.ValidateRequest(req); err != nil {
		return nil, err
	}

	accountFrom, err := solana.PublicKeyFromBase58(string(req.SourceAddress))
	if err != nil {
		return nil, errors.InvalidAddressf("source address: %v", err)
	}
	vault, err := solana.PublicKeyFromBase58(string(b.profile.FeeReceiver))
	if err != nil {
		return nil, errors.Configurationf("fee receiver: %v", err)
	}

	tokenCfg, _ := b.profile.Token(req.Token)
	units := req.Amount.ToBlockchain(tokenCfg.Decimals)
	feeUnits := b.profile.RelayFee.ToBlockchain(b.profile.NativeDecimals())

	var instructions []solana.Instruction
	if req.Token == bridge.TokenNative {
		instructions = append(instructions,
			system.NewTransferInstruction(
				units.Uint64(),
				accountFrom,
				vault,
			).Build(),
		)
	} else {
		mint, err := solana.PublicKeyFromBase58(string(tokenCfg.Mint))
		if err != nil {
			return nil, errors.Configurationf("token %s: invalid mint: %v", req.Token, err)
		}
		ataFrom, _, err := solana.FindAssociatedTokenAddress(accountFrom, mint)
		if err != nil {
			return nil, fmt.Errorf("could not derive source token account: %w", err)
		}
		ataVault, _, err := solana.FindAssociatedTokenAddress(vault, mint)
		if err != nil {
			return nil, fmt.Errorf("could not derive vault token account: %w", err)
		}
		ensureVault, err := ata.NewCreateIdempotentInstruction(accountFrom, vault, mint)
		if err != nil {
			return nil, fmt.Errorf("could not build create-account instruction: %w", err)
		}
		instructions = append(instructions,
			ensureVault,
			token.NewTransferCheckedInstruction(
				units.Uint64(),
				uint8(tokenCfg.Decimals),
				ataFrom,
				mint,
				ataVault,
				accountFrom,
				[]solana.PublicKey{},
			).Build(),
		)
	}
	// relay fee, always native, always its own line item
	instructions = append(instructions,
		system.NewTransferInstruction(
			feeUnits.Uint64(),
			accountFrom,
			vault,
		).Build(),
	)

	solTx, err := solana.NewTransaction(
		instructions,
		input.RecentBlockHash,
		solana.TransactionPayer(accountFrom),
	)
	if err != nil {
		return nil, fmt.Errorf("could not assemble transaction: %w", err)
	}
	// serialized without any signatures; the external signer fills them in
	serialized, err := solTx.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("could not serialize transaction: %w", err)
	}

	correlationID := NewCorrelationID()
	arrival := time.Now().Add(b.profile.SettlementTime.Duration())

	logrus.WithFields(logrus.Fields{
		"correlation_id": correlationID,
		"token":          req.Token,
		"amount":         units.String(),
		"relay_fee":      feeUnits.String(),
		"instructions":   len(instructions),
	}).Debug("built unsigned bridge transfer")

	return &bridge.BuiltTransfer{
		SerializedTransaction: base64.StdEncoding.EncodeToString(serialized),
		CorrelationID:         correlationID,
		EstimatedArrival:      arrival,
		Instructions: fmt.Sprintf(
			"Sign and submit this transaction with your wallet, then poll the transfer status using correlation id %s and the resulting transaction signature. Expected settlement: %s.",
			correlationID, b.profile.SettlementTime.Duration(),
		),
	}, nil
}

const correlationAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// NewCorrelationID returns a locally generated tracking token,
// bridge_<unix-epoch-millis>_<random-alphanumeric-suffix>. It only needs
// to be unique within a process lifetime; the ledger signature becomes
// the authoritative key once the transaction is submitted.
func NewCorrelationID() string {
	suffix := make([]byte, 9)
	if _, err := rand.Read(suffix); err != nil {
		// fall back to a time-derived suffix; uniqueness is best-effort
		return fmt.Sprintf("bridge_%d_%09d", time.Now().UnixMilli(), time.Now().Nanosecond())
	}
	for i, b := range suffix {
		suffix[i] = correlationAlphabet[int(b)%len(correlationAlphabet)]
	}
	return fmt.Sprintf("bridge_%d_%s", time.Now().UnixMilli(), string(suffix))
}
