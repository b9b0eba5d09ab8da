package solido

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/solido-labs/solido-go/pkg/safemath"
	"github.com/solido-labs/solido-go/pkg/vm"
)

// Companion pooled-stake program. The core consumes its state layout and a
// fixed instruction encoding; its semantics live in the companion program.

const (
	StakePoolAccountTypeUninitialized = iota
	StakePoolAccountTypeStakePool
	StakePoolAccountTypeValidatorList
)

// stake pool instruction tags (borsh, u8)
const (
	StakePoolInstrTypeInitialize = iota
	StakePoolInstrTypeCreateValidatorStakeAccount
	StakePoolInstrTypeAddValidatorToPool
	StakePoolInstrTypeRemoveValidatorFromPool
	StakePoolInstrTypeUpdateValidatorListBalance
	StakePoolInstrTypeUpdateStakePoolBalance
	StakePoolInstrTypeDeposit
	StakePoolInstrTypeWithdraw
)

type StakePoolFee struct {
	Denominator uint64
	Numerator   uint64
}

// StakePool is the companion program's pool state, decoded only for the
// fields the core validates and the token-to-native exchange rate.
type StakePool struct {
	AccountType        byte
	Manager            solana.PublicKey
	Staker             solana.PublicKey
	WithdrawBumpSeed   byte
	ValidatorList      solana.PublicKey
	PoolMint           solana.PublicKey
	ManagerFeeAccount  solana.PublicKey
	TokenProgramID     solana.PublicKey
	TotalStakeLamports uint64
	PoolTokenSupply    uint64
	LastUpdateEpoch    uint64
	Fee                StakePoolFee
}

func (pool *StakePool) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	pool.AccountType, err = decoder.ReadByte()
	if err != nil {
		return err
	}
	for _, pk := range []*solana.PublicKey{&pool.Manager, &pool.Staker} {
		b, err := decoder.ReadBytes(solana.PublicKeyLength)
		if err != nil {
			return err
		}
		copy(pk[:], b)
	}
	pool.WithdrawBumpSeed, err = decoder.ReadByte()
	if err != nil {
		return err
	}
	for _, pk := range []*solana.PublicKey{
		&pool.ValidatorList,
		&pool.PoolMint,
		&pool.ManagerFeeAccount,
		&pool.TokenProgramID,
	} {
		b, err := decoder.ReadBytes(solana.PublicKeyLength)
		if err != nil {
			return err
		}
		copy(pk[:], b)
	}
	pool.TotalStakeLamports, err = decoder.ReadUint64(bin.LE)
	if err != nil {
		return err
	}
	pool.PoolTokenSupply, err = decoder.ReadUint64(bin.LE)
	if err != nil {
		return err
	}
	pool.LastUpdateEpoch, err = decoder.ReadUint64(bin.LE)
	if err != nil {
		return err
	}
	pool.Fee.Denominator, err = decoder.ReadUint64(bin.LE)
	if err != nil {
		return err
	}
	pool.Fee.Numerator, err = decoder.ReadUint64(bin.LE)
	return err
}

func (pool *StakePool) MarshalWithEncoder(encoder *bin.Encoder) error {
	_ = encoder.WriteByte(pool.AccountType)
	_ = encoder.WriteBytes(pool.Manager[:], false)
	_ = encoder.WriteBytes(pool.Staker[:], false)
	_ = encoder.WriteByte(pool.WithdrawBumpSeed)
	_ = encoder.WriteBytes(pool.ValidatorList[:], false)
	_ = encoder.WriteBytes(pool.PoolMint[:], false)
	_ = encoder.WriteBytes(pool.ManagerFeeAccount[:], false)
	_ = encoder.WriteBytes(pool.TokenProgramID[:], false)
	_ = encoder.WriteUint64(pool.TotalStakeLamports, bin.LE)
	_ = encoder.WriteUint64(pool.PoolTokenSupply, bin.LE)
	_ = encoder.WriteUint64(pool.LastUpdateEpoch, bin.LE)
	_ = encoder.WriteUint64(pool.Fee.Denominator, bin.LE)
	return encoder.WriteUint64(pool.Fee.Numerator, bin.LE)
}

func StakePoolFromAccountInfo(acct *vm.AccountInfo) (*StakePool, error) {
	pool := new(StakePool)
	decoder := bin.NewBinDecoder(acct.Data)
	if err := pool.UnmarshalWithDecoder(decoder); err != nil {
		return nil, fmt.Errorf("failed to decode stake pool state: %w", err)
	}
	return pool, nil
}

func (pool *StakePool) IsUninitialized() bool {
	return pool.AccountType == StakePoolAccountTypeUninitialized
}

// CalcLamportsForPoolTokens values a pool-token holding in lamports through
// the pool's exchange rate. An empty pool values everything at zero.
func (pool *StakePool) CalcLamportsForPoolTokens(poolTokens uint64) (uint64, error) {
	if pool.PoolTokenSupply == 0 {
		return 0, nil
	}
	lamports, err := safemath.CheckedMulDivU64(poolTokens, pool.TotalStakeLamports, pool.PoolTokenSupply)
	if err != nil {
		return 0, ErrCalculationFailure
	}
	return lamports, nil
}

// StakePoolDepositAccountsMeta is the semantic account order of the
// companion program's Deposit instruction.
type StakePoolDepositAccountsMeta struct {
	StakePool             solana.PublicKey
	ValidatorListStorage  solana.PublicKey
	DepositAuthority      solana.PublicKey
	WithdrawAuthority     solana.PublicKey
	DepositStakeAddress   solana.PublicKey
	ValidatorStakeAccount solana.PublicKey
	PoolTokensTo          solana.PublicKey
	PoolMint              solana.PublicKey
	TokenProgramID        solana.PublicKey
}

// NewStakePoolDepositInstruction moves a delegated stake account into the
// pool in exchange for pool tokens. The deposit authority signs; when it is
// a derived authority the caller invokes this with its signer seeds.
func NewStakePoolDepositInstruction(stakePoolProgram solana.PublicKey, accounts *StakePoolDepositAccountsMeta) vm.Instruction {
	return vm.Instruction{
		ProgramID: stakePoolProgram,
		Accounts: []vm.AccountMeta{
			vm.Meta(accounts.StakePool, false),
			vm.Meta(accounts.ValidatorListStorage, false),
			vm.MetaReadonly(accounts.DepositAuthority, true),
			vm.MetaReadonly(accounts.WithdrawAuthority, false),
			vm.Meta(accounts.DepositStakeAddress, false),
			vm.Meta(accounts.ValidatorStakeAccount, false),
			vm.Meta(accounts.PoolTokensTo, false),
			vm.Meta(accounts.PoolMint, false),
			vm.MetaReadonly(SysvarClockAddr, false),
			vm.MetaReadonly(SysvarStakeHistoryAddr, false),
			vm.MetaReadonly(accounts.TokenProgramID, false),
			vm.MetaReadonly(StakeProgramAddr, false),
		},
		Data: []byte{StakePoolInstrTypeDeposit},
	}
}

// NewStakePoolInitializeInstruction builds the companion program's
// Initialize call with an externally supplied staker and deposit authority,
// used by operators to pre-arrange the pool before this program's
// Initialize verifies the relationship.
func NewStakePoolInitializeInstruction(
	stakePoolProgram solana.PublicKey,
	stakePool solana.PublicKey,
	manager solana.PublicKey,
	staker solana.PublicKey,
	validatorList solana.PublicKey,
	reserveStake solana.PublicKey,
	poolMint solana.PublicKey,
	managerPoolAccount solana.PublicKey,
	tokenProgramID solana.PublicKey,
	depositAuthority solana.PublicKey,
	fee StakePoolFee,
	maxValidators uint32,
) vm.Instruction {
	writer := new(bytes.Buffer)
	encoder := bin.NewBinEncoder(writer)
	_ = encoder.WriteByte(StakePoolInstrTypeInitialize)
	_ = encoder.WriteUint64(fee.Denominator, bin.LE)
	_ = encoder.WriteUint64(fee.Numerator, bin.LE)
	_ = encoder.WriteUint32(maxValidators, bin.LE)
	return vm.Instruction{
		ProgramID: stakePoolProgram,
		Accounts: []vm.AccountMeta{
			vm.Meta(stakePool, true),
			vm.MetaReadonly(manager, true),
			vm.MetaReadonly(staker, false),
			vm.Meta(validatorList, false),
			vm.MetaReadonly(reserveStake, false),
			vm.MetaReadonly(poolMint, false),
			vm.MetaReadonly(managerPoolAccount, false),
			vm.MetaReadonly(SysvarClockAddr, false),
			vm.MetaReadonly(vm.SysvarRentAddr, false),
			vm.MetaReadonly(tokenProgramID, false),
			vm.MetaReadonly(depositAuthority, false),
		},
		Data: writer.Bytes(),
	}
}
