package client

import (
	"context"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/sirupsen/logrus"

	bridge "github.com/solstice-labs/bridge"
	"github.com/solstice-labs/bridge/errors"
)

// Balances is a snapshot of an account's native-coin and token balances,
// in human-readable decimals.
type Balances struct {
	Native bridge.AmountHumanReadable                  `json:"native"`
	Tokens map[bridge.Token]bridge.AmountHumanReadable `json:"tokens"`
}

// CanCover reports whether the balances suffice for bridging `amount` of
// `token` plus the native relay fee.
func (b *Balances) CanCover(token bridge.Token, amount, relayFee bridge.AmountHumanReadable) bool {
	if token == bridge.TokenNative {
		needed := amount.Add(relayFee)
		return b.Native.Decimal().Cmp(needed.Decimal()) >= 0
	}
	have, ok := b.Tokens[token]
	if !ok {
		return false
	}
	return have.Decimal().Cmp(amount.Decimal()) >= 0 &&
		b.Native.Decimal().Cmp(relayFee.Decimal()) >= 0
}

// Balances reads the native balance and every configured token balance
// for an address. An account that never received a token legitimately
// has no token account; that reads as a zero balance, not an error.
func (c *Client) Balances(ctx context.Context, address bridge.Address) (*Balances, error) {
	owner, err := solana.PublicKeyFromBase58(string(address))
	if err != nil {
		return nil, errors.InvalidAddressf("not a valid source ledger address: %q: %v", address, err)
	}

	native, err := c.SolClient.GetBalance(ctx, owner, rpc.CommitmentFinalized)
	if err != nil {
		return nil, errors.NetworkUnavailablef("could not get balance: %v", err)
	}
	nativeUnits := bridge.NewAmountBlockchainFromUint64(native.Value)

	out := &Balances{
		Native: nativeUnits.ToHuman(c.profile.NativeDecimals()),
		Tokens: map[bridge.Token]bridge.AmountHumanReadable{},
	}

	for token, cfg := range c.profile.Tokens {
		if cfg.Mint == "" {
			continue
		}
		mint, err := solana.PublicKeyFromBase58(string(cfg.Mint))
		if err != nil {
			return nil, errors.Configurationf("token %s: invalid mint: %v", token, err)
		}
		tokenAccount, _, err := solana.FindAssociatedTokenAddress(owner, mint)
		if err != nil {
			return nil, errors.Configurationf("token %s: could not derive token account: %v", token, err)
		}
		res, err := c.SolClient.GetTokenAccountBalance(ctx, tokenAccount, rpc.CommitmentFinalized)
		if err != nil {
			if isAccountNotFound(err) {
				zero := bridge.NewAmountBlockchainFromUint64(0)
				out.Tokens[token] = zero.ToHuman(cfg.Decimals)
				continue
			}
			return nil, errors.NetworkUnavailablef("could not get %s balance: %v", token, err)
		}
		if res == nil || res.Value == nil {
			zero := bridge.NewAmountBlockchainFromUint64(0)
			out.Tokens[token] = zero.ToHuman(cfg.Decimals)
			continue
		}
		units := bridge.NewAmountBlockchainFromStr(res.Value.Amount)
		out.Tokens[token] = units.ToHuman(cfg.Decimals)
	}

	logrus.WithFields(logrus.Fields{
		"address": address,
		"native":  out.Native.String(),
		"tokens":  len(out.Tokens),
	}).Debug("fetched balances")

	return out, nil
}

// The RPC surfaces a missing account as a plain string error.
func isAccountNotFound(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "could not find account") ||
		strings.Contains(msg, "not found")
}
