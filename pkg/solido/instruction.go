package solido

import (
	"bytes"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/solido-labs/solido-go/pkg/vm"
)

// instruction tags (borsh, u8)
const (
	InstrTypeInitialize = iota
	InstrTypeDeposit
	InstrTypeStakeDeposit
	InstrTypeDepositActiveStakeToPool
	InstrTypeWithdraw
	InstrTypeDistributeFees
	InstrTypeClaimValidatorFees
	InstrTypeChangeFeeSpec
	InstrTypeCreateValidatorStakeAccount
	InstrTypeAddValidator
	InstrTypeRemoveValidator
)

// Instruction is one decoded instruction variant.
type Instruction interface {
	Tag() uint8
	MarshalWithEncoder(encoder *bin.Encoder) error
}

type InstrInitialize struct {
	FeeDistribution FeeDistribution
	MaxValidators   uint32
	MaxMaintainers  uint32
}

func (initialize *InstrInitialize) Tag() uint8 { return InstrTypeInitialize }

func (initialize *InstrInitialize) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	if err = initialize.FeeDistribution.UnmarshalWithDecoder(decoder); err != nil {
		return err
	}
	initialize.MaxValidators, err = decoder.ReadUint32(bin.LE)
	if err != nil {
		return err
	}
	initialize.MaxMaintainers, err = decoder.ReadUint32(bin.LE)
	return err
}

func (initialize *InstrInitialize) MarshalWithEncoder(encoder *bin.Encoder) error {
	_ = encoder.WriteByte(InstrTypeInitialize)
	if err := initialize.FeeDistribution.MarshalWithEncoder(encoder); err != nil {
		return err
	}
	_ = encoder.WriteUint32(initialize.MaxValidators, bin.LE)
	return encoder.WriteUint32(initialize.MaxMaintainers, bin.LE)
}

type InstrDeposit struct {
	Amount uint64
}

func (deposit *InstrDeposit) Tag() uint8 { return InstrTypeDeposit }

func (deposit *InstrDeposit) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	deposit.Amount, err = decoder.ReadUint64(bin.LE)
	return err
}

func (deposit *InstrDeposit) MarshalWithEncoder(encoder *bin.Encoder) error {
	_ = encoder.WriteByte(InstrTypeDeposit)
	return encoder.WriteUint64(deposit.Amount, bin.LE)
}

type InstrStakeDeposit struct {
	Amount uint64
}

func (stakeDeposit *InstrStakeDeposit) Tag() uint8 { return InstrTypeStakeDeposit }

func (stakeDeposit *InstrStakeDeposit) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	stakeDeposit.Amount, err = decoder.ReadUint64(bin.LE)
	return err
}

func (stakeDeposit *InstrStakeDeposit) MarshalWithEncoder(encoder *bin.Encoder) error {
	_ = encoder.WriteByte(InstrTypeStakeDeposit)
	return encoder.WriteUint64(stakeDeposit.Amount, bin.LE)
}

type InstrDepositActiveStakeToPool struct{}

func (depositToPool *InstrDepositActiveStakeToPool) Tag() uint8 {
	return InstrTypeDepositActiveStakeToPool
}

func (depositToPool *InstrDepositActiveStakeToPool) MarshalWithEncoder(encoder *bin.Encoder) error {
	return encoder.WriteByte(InstrTypeDepositActiveStakeToPool)
}

type InstrWithdraw struct {
	Amount uint64
}

func (withdraw *InstrWithdraw) Tag() uint8 { return InstrTypeWithdraw }

func (withdraw *InstrWithdraw) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	withdraw.Amount, err = decoder.ReadUint64(bin.LE)
	return err
}

func (withdraw *InstrWithdraw) MarshalWithEncoder(encoder *bin.Encoder) error {
	_ = encoder.WriteByte(InstrTypeWithdraw)
	return encoder.WriteUint64(withdraw.Amount, bin.LE)
}

type InstrChangeFeeSpec struct {
	NewFeeDistribution FeeDistribution
}

func (changeFee *InstrChangeFeeSpec) Tag() uint8 { return InstrTypeChangeFeeSpec }

func (changeFee *InstrChangeFeeSpec) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	return changeFee.NewFeeDistribution.UnmarshalWithDecoder(decoder)
}

func (changeFee *InstrChangeFeeSpec) MarshalWithEncoder(encoder *bin.Encoder) error {
	_ = encoder.WriteByte(InstrTypeChangeFeeSpec)
	return changeFee.NewFeeDistribution.MarshalWithEncoder(encoder)
}

// InstrManagement covers the payload-free fee and validator-set variants,
// whose semantics belong to the management collaborator.
type InstrManagement struct {
	Variant uint8
}

func (instr *InstrManagement) Tag() uint8 { return instr.Variant }

func (instr *InstrManagement) MarshalWithEncoder(encoder *bin.Encoder) error {
	return encoder.WriteByte(instr.Variant)
}

// DecodeInstruction parses raw instruction bytes into a typed variant.
// Unknown tags, short payloads and trailing bytes are all decode errors;
// the payload is caller-controlled input.
func DecodeInstruction(data []byte) (Instruction, error) {
	decoder := bin.NewBinDecoder(data)
	tag, err := decoder.ReadByte()
	if err != nil {
		return nil, ErrInvalidInstructionData
	}

	var instr Instruction
	switch tag {
	case InstrTypeInitialize:
		initialize := new(InstrInitialize)
		err = initialize.UnmarshalWithDecoder(decoder)
		instr = initialize
	case InstrTypeDeposit:
		deposit := new(InstrDeposit)
		err = deposit.UnmarshalWithDecoder(decoder)
		instr = deposit
	case InstrTypeStakeDeposit:
		stakeDeposit := new(InstrStakeDeposit)
		err = stakeDeposit.UnmarshalWithDecoder(decoder)
		instr = stakeDeposit
	case InstrTypeDepositActiveStakeToPool:
		instr = new(InstrDepositActiveStakeToPool)
	case InstrTypeWithdraw:
		withdraw := new(InstrWithdraw)
		err = withdraw.UnmarshalWithDecoder(decoder)
		instr = withdraw
	case InstrTypeChangeFeeSpec:
		changeFee := new(InstrChangeFeeSpec)
		err = changeFee.UnmarshalWithDecoder(decoder)
		instr = changeFee
	case InstrTypeDistributeFees, InstrTypeClaimValidatorFees,
		InstrTypeCreateValidatorStakeAccount, InstrTypeAddValidator,
		InstrTypeRemoveValidator:
		instr = &InstrManagement{Variant: tag}
	default:
		return nil, ErrInvalidInstructionData
	}
	if err != nil {
		return nil, ErrInvalidInstructionData
	}
	if decoder.Remaining() != 0 {
		return nil, ErrInvalidInstructionData
	}
	return instr, nil
}

// EncodeInstruction serializes a typed variant back to wire bytes.
func EncodeInstruction(instr Instruction) ([]byte, error) {
	writer := new(bytes.Buffer)
	if err := instr.MarshalWithEncoder(bin.NewBinEncoder(writer)); err != nil {
		return nil, err
	}
	return writer.Bytes(), nil
}

// InitializeAccountsMeta is the semantic account order of Initialize; see
// initializeAccountRoles for the flag contract.
type InitializeAccountsMeta struct {
	Lido              solana.PublicKey
	Manager           solana.PublicKey
	StSolMint         solana.PublicKey
	StakePool         solana.PublicKey
	PoolTokenTo       solana.PublicKey
	FeeToken          solana.PublicKey
	InsuranceAccount  solana.PublicKey
	TreasuryAccount   solana.PublicKey
	ManagerFeeAccount solana.PublicKey
	ReserveAccount    solana.PublicKey
}

// NewInitializeInstruction builds the Initialize call. The state account
// must co-sign its own initialization.
func NewInitializeInstruction(
	programID solana.PublicKey,
	accounts *InitializeAccountsMeta,
	feeDistribution FeeDistribution,
	maxValidators uint32,
	maxMaintainers uint32,
) (vm.Instruction, error) {
	data, err := EncodeInstruction(&InstrInitialize{
		FeeDistribution: feeDistribution,
		MaxValidators:   maxValidators,
		MaxMaintainers:  maxMaintainers,
	})
	if err != nil {
		return vm.Instruction{}, err
	}
	return vm.Instruction{
		ProgramID: programID,
		Accounts: []vm.AccountMeta{
			vm.Meta(accounts.Lido, true),
			vm.MetaReadonly(accounts.Manager, false),
			vm.MetaReadonly(accounts.StSolMint, false),
			vm.MetaReadonly(accounts.StakePool, false),
			vm.MetaReadonly(accounts.PoolTokenTo, false),
			vm.MetaReadonly(accounts.FeeToken, false),
			vm.MetaReadonly(accounts.InsuranceAccount, false),
			vm.MetaReadonly(accounts.TreasuryAccount, false),
			vm.MetaReadonly(accounts.ManagerFeeAccount, false),
			vm.MetaReadonly(accounts.ReserveAccount, false),
			vm.MetaReadonly(vm.SysvarRentAddr, false),
			vm.MetaReadonly(TokenProgramAddr, false),
		},
		Data: data,
	}, nil
}

type DepositAccountsMeta struct {
	Lido           solana.PublicKey
	StakePool      solana.PublicKey
	PoolTokenTo    solana.PublicKey
	Manager        solana.PublicKey
	User           solana.PublicKey
	Recipient      solana.PublicKey
	StSolMint      solana.PublicKey
	ReserveAccount solana.PublicKey
}

func NewDepositInstruction(programID solana.PublicKey, accounts *DepositAccountsMeta, amount uint64) (vm.Instruction, error) {
	data, err := EncodeInstruction(&InstrDeposit{Amount: amount})
	if err != nil {
		return vm.Instruction{}, err
	}
	return vm.Instruction{
		ProgramID: programID,
		Accounts: []vm.AccountMeta{
			vm.Meta(accounts.Lido, false),
			vm.MetaReadonly(accounts.StakePool, false),
			vm.MetaReadonly(accounts.PoolTokenTo, false),
			vm.MetaReadonly(accounts.Manager, false),
			vm.Meta(accounts.User, true),
			vm.Meta(accounts.Recipient, false),
			vm.Meta(accounts.StSolMint, false),
			vm.MetaReadonly(TokenProgramAddr, false),
			vm.Meta(accounts.ReserveAccount, false),
			vm.MetaReadonly(vm.SysvarRentAddr, false),
			vm.MetaReadonly(solana.SystemProgramID, false),
		},
		Data: data,
	}, nil
}

type StakeDepositAccountsMeta struct {
	Lido             solana.PublicKey
	Validator        solana.PublicKey
	Reserve          solana.PublicKey
	Stake            solana.PublicKey
	DepositAuthority solana.PublicKey
}

func NewStakeDepositInstruction(programID solana.PublicKey, accounts *StakeDepositAccountsMeta, amount uint64) (vm.Instruction, error) {
	data, err := EncodeInstruction(&InstrStakeDeposit{Amount: amount})
	if err != nil {
		return vm.Instruction{}, err
	}
	return vm.Instruction{
		ProgramID: programID,
		Accounts: []vm.AccountMeta{
			vm.MetaReadonly(accounts.Lido, false),
			vm.MetaReadonly(accounts.Validator, false),
			vm.Meta(accounts.Reserve, false),
			vm.Meta(accounts.Stake, false),
			vm.MetaReadonly(accounts.DepositAuthority, false),
			vm.MetaReadonly(SysvarClockAddr, false),
			vm.MetaReadonly(solana.SystemProgramID, false),
			vm.MetaReadonly(vm.SysvarRentAddr, false),
			vm.MetaReadonly(StakeProgramAddr, false),
			vm.MetaReadonly(SysvarStakeHistoryAddr, false),
			vm.MetaReadonly(StakeConfigAddr, false),
		},
		Data: data,
	}, nil
}

type DepositActiveStakeToPoolAccountsMeta struct {
	Lido                       solana.PublicKey
	Maintainer                 solana.PublicKey
	Validator                  solana.PublicKey
	Stake                      solana.PublicKey
	DepositAuthority           solana.PublicKey
	PoolTokenTo                solana.PublicKey
	StakePoolProgram           solana.PublicKey
	StakePool                  solana.PublicKey
	StakePoolValidatorList     solana.PublicKey
	StakePoolWithdrawAuthority solana.PublicKey
	StakePoolValidatorStake    solana.PublicKey
	StakePoolMint              solana.PublicKey
}

func NewDepositActiveStakeToPoolInstruction(programID solana.PublicKey, accounts *DepositActiveStakeToPoolAccountsMeta) (vm.Instruction, error) {
	data, err := EncodeInstruction(new(InstrDepositActiveStakeToPool))
	if err != nil {
		return vm.Instruction{}, err
	}
	return vm.Instruction{
		ProgramID: programID,
		Accounts: []vm.AccountMeta{
			vm.MetaReadonly(accounts.Lido, false),
			vm.MetaReadonly(accounts.Maintainer, true),
			vm.MetaReadonly(accounts.Validator, false),
			vm.Meta(accounts.Stake, false),
			vm.MetaReadonly(accounts.DepositAuthority, false),
			vm.Meta(accounts.PoolTokenTo, false),
			vm.MetaReadonly(accounts.StakePoolProgram, false),
			vm.Meta(accounts.StakePool, false),
			vm.Meta(accounts.StakePoolValidatorList, false),
			vm.MetaReadonly(accounts.StakePoolWithdrawAuthority, false),
			vm.Meta(accounts.StakePoolValidatorStake, false),
			vm.Meta(accounts.StakePoolMint, false),
			vm.MetaReadonly(SysvarClockAddr, false),
			vm.MetaReadonly(SysvarStakeHistoryAddr, false),
			vm.MetaReadonly(vm.SysvarRentAddr, false),
			vm.MetaReadonly(TokenProgramAddr, false),
			vm.MetaReadonly(StakeProgramAddr, false),
			vm.MetaReadonly(solana.SystemProgramID, false),
		},
		Data: data,
	}, nil
}

func NewWithdrawInstruction(programID solana.PublicKey, lido, user solana.PublicKey, amount uint64) (vm.Instruction, error) {
	data, err := EncodeInstruction(&InstrWithdraw{Amount: amount})
	if err != nil {
		return vm.Instruction{}, err
	}
	return vm.Instruction{
		ProgramID: programID,
		Accounts: []vm.AccountMeta{
			vm.Meta(lido, false),
			vm.MetaReadonly(user, true),
		},
		Data: data,
	}, nil
}
