package solido

import (
	"bytes"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/solido-labs/solido-go/pkg/vm"
)

var (
	StakeProgramAddr       = solana.MustPublicKeyFromBase58("Stake11111111111111111111111111111111111111")
	StakeConfigAddr        = solana.MustPublicKeyFromBase58("StakeConfig11111111111111111111111111111111")
	SysvarClockAddr        = solana.MustPublicKeyFromBase58("SysvarC1ock11111111111111111111111111111111")
	SysvarStakeHistoryAddr = solana.MustPublicKeyFromBase58("SysvarStakeHistory1111111111111111111111111")
)

// StakeStateSize is the fixed allocation of a stake account.
const StakeStateSize = 200

// stake account state tags (bincode, u32)
const (
	StakeStateTypeUninitialized = iota
	StakeStateTypeInitialized
	StakeStateTypeStake
	StakeStateTypeRewardsPool
)

// stake program instruction tags (bincode, u32)
const (
	StakeInstrTypeInitialize = iota
	StakeInstrTypeAuthorize
	StakeInstrTypeDelegateStake
)

type StakeAuthorized struct {
	Staker     solana.PublicKey
	Withdrawer solana.PublicKey
}

type StakeLockup struct {
	UnixTimestamp int64
	Epoch         uint64
	Custodian     solana.PublicKey
}

// IsDelegatedStake probes a stake account for the Stake state tag. Anything
// shorter than the tag counts as not a live stake rather than an error; the
// caller decides whether existence is expected.
func IsDelegatedStake(acct *vm.AccountInfo) bool {
	decoder := bin.NewBinDecoder(acct.Data)
	tag, err := decoder.ReadUint32(bin.LE)
	if err != nil {
		return false
	}
	return tag == StakeStateTypeStake
}

type StakeInstrInitialize struct {
	Authorized StakeAuthorized
	Lockup     StakeLockup
}

func (initialize *StakeInstrInitialize) MarshalWithEncoder(encoder *bin.Encoder) error {
	_ = encoder.WriteUint32(StakeInstrTypeInitialize, bin.LE)
	_ = encoder.WriteBytes(initialize.Authorized.Staker[:], false)
	_ = encoder.WriteBytes(initialize.Authorized.Withdrawer[:], false)
	_ = encoder.WriteInt64(initialize.Lockup.UnixTimestamp, bin.LE)
	_ = encoder.WriteUint64(initialize.Lockup.Epoch, bin.LE)
	return encoder.WriteBytes(initialize.Lockup.Custodian[:], false)
}

// NewStakeInitializeInstruction sets the stake and withdraw authorities of
// a freshly created stake account. No lockup.
func NewStakeInitializeInstruction(stake solana.PublicKey, authorized StakeAuthorized) vm.Instruction {
	initialize := StakeInstrInitialize{Authorized: authorized}
	writer := new(bytes.Buffer)
	_ = initialize.MarshalWithEncoder(bin.NewBinEncoder(writer))
	return vm.Instruction{
		ProgramID: StakeProgramAddr,
		Accounts: []vm.AccountMeta{
			vm.Meta(stake, false),
			vm.MetaReadonly(vm.SysvarRentAddr, false),
		},
		Data: writer.Bytes(),
	}
}

// NewStakeDelegateInstruction delegates the stake account to the validator
// vote account, signed by the stake authority.
func NewStakeDelegateInstruction(stake, authority, validatorVote solana.PublicKey) vm.Instruction {
	writer := new(bytes.Buffer)
	_ = bin.NewBinEncoder(writer).WriteUint32(StakeInstrTypeDelegateStake, bin.LE)
	return vm.Instruction{
		ProgramID: StakeProgramAddr,
		Accounts: []vm.AccountMeta{
			vm.Meta(stake, false),
			vm.MetaReadonly(validatorVote, false),
			vm.MetaReadonly(SysvarClockAddr, false),
			vm.MetaReadonly(SysvarStakeHistoryAddr, false),
			vm.MetaReadonly(StakeConfigAddr, false),
			vm.MetaReadonly(authority, true),
		},
		Data: writer.Bytes(),
	}
}
