// Package vm holds the contract between the ledger host and an on-chain
// program: the account view a handler receives, the instruction shape used
// for cross-program invocation, and the rent sysvar.
package vm

import (
	"github.com/gagliardetto/solana-go"
)

// AccountInfo is one entry of the ordered account list the host passes into
// a program call. The same underlying account appearing twice in one call is
// represented by the same *AccountInfo, so lamport and data mutations are
// visible through every alias.
type AccountInfo struct {
	Key        solana.PublicKey
	Lamports   uint64
	Data       []byte
	Owner      solana.PublicKey
	Executable bool
	RentEpoch  uint64

	// per-call flags assigned by the transaction, not properties of the
	// account itself
	IsSigner   bool
	IsWritable bool
}

// DataLen returns the size of the account's allocation.
func (a *AccountInfo) DataLen() uint64 {
	return uint64(len(a.Data))
}

type AccountMeta struct {
	Pubkey     solana.PublicKey
	IsSigner   bool
	IsWritable bool
}

// Instruction is a fully-formed instruction: the program to invoke, the
// ordered account metas it expects, and its serialized payload.
type Instruction struct {
	ProgramID solana.PublicKey
	Accounts  []AccountMeta
	Data      []byte
}

// Meta builds a writable account meta.
func Meta(pubkey solana.PublicKey, isSigner bool) AccountMeta {
	return AccountMeta{Pubkey: pubkey, IsSigner: isSigner, IsWritable: true}
}

// MetaReadonly builds a read-only account meta.
func MetaReadonly(pubkey solana.PublicKey, isSigner bool) AccountMeta {
	return AccountMeta{Pubkey: pubkey, IsSigner: isSigner, IsWritable: false}
}
