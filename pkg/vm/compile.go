package vm

import (
	"github.com/gagliardetto/solana-go"
)

// AsSolana compiles the instruction into the form the RPC transaction
// builder accepts.
func (in Instruction) AsSolana() *solana.GenericInstruction {
	metas := make(solana.AccountMetaSlice, len(in.Accounts))
	for i, meta := range in.Accounts {
		metas[i] = &solana.AccountMeta{
			PublicKey:  meta.Pubkey,
			IsSigner:   meta.IsSigner,
			IsWritable: meta.IsWritable,
		}
	}
	return solana.NewInstruction(in.ProgramID, metas, in.Data)
}
