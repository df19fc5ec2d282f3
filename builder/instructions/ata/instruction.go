package ata

import (
	ag_solanago "github.com/gagliardetto/solana-go"
)

// Instruction discriminator for the associated-token-account program's
// CreateIdempotent variant: like Create, but a no-op when the account
// already exists instead of an error.
const Instruction_CreateIdempotent byte = 1

type CreateIdempotent struct {
	// [0] = [WRITE, SIGNER] payer
	// [1] = [WRITE] associated token account
	// [2] = [] wallet (owner of the new account)
	// [3] = [] token mint
	// [4] = [] system program
	// [5] = [] token program
	ag_solanago.AccountMetaSlice `bin:"-"`
}

var _ ag_solanago.Instruction = &CreateIdempotent{}

// NewCreateIdempotentInstruction derives the wallet's associated token
// account for the mint and returns the instruction ensuring it exists.
func NewCreateIdempotentInstruction(
	payer ag_solanago.PublicKey,
	wallet ag_solanago.PublicKey,
	mint ag_solanago.PublicKey,
) (*CreateIdempotent, error) {
	associatedAccount, _, err := ag_solanago.FindAssociatedTokenAddress(wallet, mint)
	if err != nil {
		return nil, err
	}
	return &CreateIdempotent{
		AccountMetaSlice: ag_solanago.AccountMetaSlice{
			ag_solanago.Meta(payer).WRITE().SIGNER(),
			ag_solanago.Meta(associatedAccount).WRITE(),
			ag_solanago.Meta(wallet),
			ag_solanago.Meta(mint),
			ag_solanago.Meta(ag_solanago.SystemProgramID),
			ag_solanago.Meta(ag_solanago.TokenProgramID),
		},
	}, nil
}

func (inst *CreateIdempotent) ProgramID() ag_solanago.PublicKey {
	return ag_solanago.SPLAssociatedTokenAccountProgramID
}

func (inst *CreateIdempotent) Accounts() []*ag_solanago.AccountMeta {
	return inst.AccountMetaSlice
}

func (inst *CreateIdempotent) Data() ([]byte, error) {
	return []byte{Instruction_CreateIdempotent}, nil
}

func (inst *CreateIdempotent) GetPayerAccount() *ag_solanago.AccountMeta {
	if len(inst.AccountMetaSlice) > 0 {
		return inst.AccountMetaSlice[0]
	}
	return nil
}

func (inst *CreateIdempotent) GetAssociatedTokenAccount() *ag_solanago.AccountMeta {
	if len(inst.AccountMetaSlice) > 1 {
		return inst.AccountMetaSlice[1]
	}
	return nil
}
