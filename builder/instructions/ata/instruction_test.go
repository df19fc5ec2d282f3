package ata_test

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/solstice-labs/bridge/builder/instructions/ata"
)

func TestNewCreateIdempotentInstruction(t *testing.T) {
	payer := solana.MustPublicKeyFromBase58("4ixwJt7DDGUV3xxi3mvZuEjLn4kDC39ogknnHQ4Crv5a")
	wallet := solana.MustPublicKeyFromBase58("21yrAb33AQtNB43XWm2X9uKMXnTq8u9Wpzxzn8ZHEZBu")
	mint := solana.MustPublicKeyFromBase58("4zMMC9srt5Ri5X14GAgXhaHii3GnPAEERYPJgZJDncDU")

	inst, err := ata.NewCreateIdempotentInstruction(payer, wallet, mint)
	require.NoError(t, err)

	require.Equal(t, solana.SPLAssociatedTokenAccountProgramID, inst.ProgramID())

	data, err := inst.Data()
	require.NoError(t, err)
	require.Equal(t, []byte{ata.Instruction_CreateIdempotent}, data)

	accounts := inst.Accounts()
	require.Len(t, accounts, 6)

	require.Equal(t, payer, accounts[0].PublicKey)
	require.True(t, accounts[0].IsSigner)
	require.True(t, accounts[0].IsWritable)

	expectedATA, _, err := solana.FindAssociatedTokenAddress(wallet, mint)
	require.NoError(t, err)
	require.Equal(t, expectedATA, accounts[1].PublicKey)
	require.True(t, accounts[1].IsWritable)
	require.False(t, accounts[1].IsSigner)

	require.Equal(t, wallet, accounts[2].PublicKey)
	require.Equal(t, mint, accounts[3].PublicKey)
	require.Equal(t, solana.SystemProgramID, accounts[4].PublicKey)
	require.Equal(t, solana.TokenProgramID, accounts[5].PublicKey)

	require.Equal(t, payer, inst.GetPayerAccount().PublicKey)
	require.Equal(t, expectedATA, inst.GetAssociatedTokenAccount().PublicKey)
}
