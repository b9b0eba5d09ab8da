package solido

import (
	"bytes"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/solido-labs/solido-go/pkg/vm"
)

// system program instruction tags (bincode, u32)
const (
	SystemInstrTypeCreateAccount = iota
	SystemInstrTypeAssign
	SystemInstrTypeTransfer
)

type SystemInstrCreateAccount struct {
	Lamports uint64
	Space    uint64
	Owner    solana.PublicKey
}

func (createAcct *SystemInstrCreateAccount) MarshalWithEncoder(encoder *bin.Encoder) error {
	_ = encoder.WriteUint32(SystemInstrTypeCreateAccount, bin.LE)
	_ = encoder.WriteUint64(createAcct.Lamports, bin.LE)
	_ = encoder.WriteUint64(createAcct.Space, bin.LE)
	return encoder.WriteBytes(createAcct.Owner[:], false)
}

type SystemInstrTransfer struct {
	Lamports uint64
}

func (transfer *SystemInstrTransfer) MarshalWithEncoder(encoder *bin.Encoder) error {
	_ = encoder.WriteUint32(SystemInstrTypeTransfer, bin.LE)
	return encoder.WriteUint64(transfer.Lamports, bin.LE)
}

// NewSystemCreateAccountInstruction builds the system program call that
// funds and allocates a new account owned by owner. Both from and the new
// account must sign.
func NewSystemCreateAccountInstruction(from, newAccount solana.PublicKey, lamports, space uint64, owner solana.PublicKey) vm.Instruction {
	createAcct := SystemInstrCreateAccount{Lamports: lamports, Space: space, Owner: owner}
	writer := new(bytes.Buffer)
	_ = createAcct.MarshalWithEncoder(bin.NewBinEncoder(writer))
	return vm.Instruction{
		ProgramID: solana.SystemProgramID,
		Accounts: []vm.AccountMeta{
			vm.Meta(from, true),
			vm.Meta(newAccount, true),
		},
		Data: writer.Bytes(),
	}
}

// NewSystemTransferInstruction builds a native lamport transfer signed by
// from.
func NewSystemTransferInstruction(from, to solana.PublicKey, lamports uint64) vm.Instruction {
	transfer := SystemInstrTransfer{Lamports: lamports}
	writer := new(bytes.Buffer)
	_ = transfer.MarshalWithEncoder(bin.NewBinEncoder(writer))
	return vm.Instruction{
		ProgramID: solana.SystemProgramID,
		Accounts: []vm.AccountMeta{
			vm.Meta(from, true),
			vm.Meta(to, false),
		},
		Data: writer.Bytes(),
	}
}
