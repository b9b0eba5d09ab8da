package solido

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeInstruction_RoundTrip(t *testing.T) {
	instrs := []Instruction{
		&InstrInitialize{
			FeeDistribution: FeeDistribution{
				InsuranceFee:  1,
				TreasuryFee:   2,
				ValidationFee: 3,
				ManagerFee:    4,
			},
			MaxValidators:  100,
			MaxMaintainers: 10,
		},
		&InstrDeposit{Amount: 123456789},
		&InstrStakeDeposit{Amount: 1},
		&InstrDepositActiveStakeToPool{},
		&InstrWithdraw{Amount: 42},
		&InstrChangeFeeSpec{NewFeeDistribution: FeeDistribution{TreasuryFee: 7}},
		&InstrManagement{Variant: InstrTypeDistributeFees},
		&InstrManagement{Variant: InstrTypeClaimValidatorFees},
		&InstrManagement{Variant: InstrTypeCreateValidatorStakeAccount},
		&InstrManagement{Variant: InstrTypeAddValidator},
		&InstrManagement{Variant: InstrTypeRemoveValidator},
	}

	for _, instr := range instrs {
		data, err := EncodeInstruction(instr)
		require.NoError(t, err)

		decoded, err := DecodeInstruction(data)
		require.NoError(t, err)
		assert.Equal(t, instr.Tag(), decoded.Tag())
		assert.Equal(t, instr, decoded)
	}
}

func TestDecodeInstruction_Malformed(t *testing.T) {
	// empty input
	_, err := DecodeInstruction(nil)
	assert.Equal(t, ErrInvalidInstructionData, err)

	// unknown tag
	_, err = DecodeInstruction([]byte{99})
	assert.Equal(t, ErrInvalidInstructionData, err)

	// truncated payload
	_, err = DecodeInstruction([]byte{InstrTypeDeposit, 1, 2, 3})
	assert.Equal(t, ErrInvalidInstructionData, err)

	// trailing garbage after a valid payload
	data, err := EncodeInstruction(&InstrDeposit{Amount: 5})
	require.NoError(t, err)
	_, err = DecodeInstruction(append(data, 0))
	assert.Equal(t, ErrInvalidInstructionData, err)
}

func TestBuilders_PinAccountOrder(t *testing.T) {
	programID := randomPubkey(t)

	depositMeta := &DepositAccountsMeta{
		Lido:           randomPubkey(t),
		StakePool:      randomPubkey(t),
		PoolTokenTo:    randomPubkey(t),
		Manager:        randomPubkey(t),
		User:           randomPubkey(t),
		Recipient:      randomPubkey(t),
		StSolMint:      randomPubkey(t),
		ReserveAccount: randomPubkey(t),
	}
	instr, err := NewDepositInstruction(programID, depositMeta, 17)
	require.NoError(t, err)
	require.Len(t, instr.Accounts, len(depositAccountRoles))
	for i, role := range depositAccountRoles {
		assert.Equal(t, role.signer, instr.Accounts[i].IsSigner, "role %s", role.name)
		assert.Equal(t, role.writable, instr.Accounts[i].IsWritable, "role %s", role.name)
	}
	assert.Equal(t, depositMeta.User, instr.Accounts[4].Pubkey)
	assert.Equal(t, programID, instr.ProgramID)

	decoded, err := DecodeInstruction(instr.Data)
	require.NoError(t, err)
	assert.Equal(t, &InstrDeposit{Amount: 17}, decoded)

	stakeDepositMeta := &StakeDepositAccountsMeta{
		Lido:             randomPubkey(t),
		Validator:        randomPubkey(t),
		Reserve:          randomPubkey(t),
		Stake:            randomPubkey(t),
		DepositAuthority: randomPubkey(t),
	}
	instr, err = NewStakeDepositInstruction(programID, stakeDepositMeta, 9)
	require.NoError(t, err)
	require.Len(t, instr.Accounts, len(stakeDepositAccountRoles))
	for i, role := range stakeDepositAccountRoles {
		assert.Equal(t, role.signer, instr.Accounts[i].IsSigner, "role %s", role.name)
		assert.Equal(t, role.writable, instr.Accounts[i].IsWritable, "role %s", role.name)
	}
}
