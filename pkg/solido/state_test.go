package solido

import (
	"bytes"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solido-labs/solido-go/pkg/vm"
)

func TestLido_SerializedSizeMatchesRequiredBytes(t *testing.T) {
	const maxValidators = 5
	const maxMaintainers = 3

	lido := Lido{
		AccountType:      AccountTypeLido,
		Manager:          randomPubkey(t),
		StSolMint:        randomPubkey(t),
		StakePoolAccount: randomPubkey(t),
		StSolTotalShares: 12345,
		FeeDistribution:  FeeDistribution{InsuranceFee: 1, TreasuryFee: 2, ValidationFee: 3, ManagerFee: 4},
		FeeRecipients: FeeRecipients{
			InsuranceAccount: randomPubkey(t),
			TreasuryAccount:  randomPubkey(t),
			ManagerAccount:   randomPubkey(t),
			ValidatorCreditAccounts: ValidatorCreditAccounts{
				MaxValidators: maxValidators,
			},
		},
		Maintainers: Maintainers{MaxMaintainers: maxMaintainers},
	}
	// fill both lists to their declared limits
	for i := 0; i < maxValidators; i++ {
		lido.FeeRecipients.ValidatorCreditAccounts.Entries = append(
			lido.FeeRecipients.ValidatorCreditAccounts.Entries,
			ValidatorCredit{Address: randomPubkey(t), Amount: uint64(i)},
		)
	}
	for i := 0; i < maxMaintainers; i++ {
		lido.Maintainers.Entries = append(lido.Maintainers.Entries, randomPubkey(t))
	}

	writer := new(bytes.Buffer)
	require.NoError(t, lido.MarshalWithEncoder(bin.NewBinEncoder(writer)))
	assert.Equal(t, RequiredBytes(maxValidators, maxMaintainers), uint64(writer.Len()))
}

func TestLido_SerializeRoundTrip(t *testing.T) {
	lido := Lido{
		AccountType:                 AccountTypeLido,
		Manager:                     randomPubkey(t),
		StSolMint:                   randomPubkey(t),
		StakePoolAccount:            randomPubkey(t),
		StakePoolTokenHolder:        randomPubkey(t),
		TokenProgramID:              TokenProgramAddr,
		StSolTotalShares:            999,
		SolReserveAuthorityBumpSeed: 254,
		DepositAuthorityBumpSeed:    253,
		FeeManagerBumpSeed:          252,
		StakePoolAuthorityBumpSeed:  251,
		FeeRecipients: FeeRecipients{
			ValidatorCreditAccounts: ValidatorCreditAccounts{MaxValidators: 2},
		},
		Maintainers: Maintainers{
			MaxMaintainers: 2,
			Entries:        []solana.PublicKey{randomPubkey(t)},
		},
	}

	acct := &vm.AccountInfo{Data: make([]byte, RequiredBytes(2, 2))}
	require.NoError(t, lido.Serialize(acct))

	decoded, err := LidoFromAccountInfo(acct)
	require.NoError(t, err)
	assert.Equal(t, &lido, decoded)
}

func TestLido_SerializeRejectsOversizedState(t *testing.T) {
	lido := Lido{AccountType: AccountTypeLido}
	acct := &vm.AccountInfo{Data: make([]byte, LidoConstantSize-1)}
	assert.Error(t, lido.Serialize(acct))
}

func TestCalcPoolTokensForDeposit(t *testing.T) {
	lido := Lido{StSolTotalShares: 0}

	// empty pool mints one token per lamport
	tokens, err := lido.CalcPoolTokensForDeposit(1000, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), tokens)

	// share-based accounting, floored
	lido.StSolTotalShares = 100
	tokens, err = lido.CalcPoolTokensForDeposit(50, 200)
	require.NoError(t, err)
	assert.Equal(t, uint64(25), tokens)

	lido.StSolTotalShares = 3
	tokens, err = lido.CalcPoolTokensForDeposit(10, 9)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), tokens) // floor(10*3/9)
}

func TestMaintainers_Contains(t *testing.T) {
	member := randomPubkey(t)
	maintainers := Maintainers{MaxMaintainers: 2, Entries: []solana.PublicKey{member}}
	assert.True(t, maintainers.Contains(member))
	assert.False(t, maintainers.Contains(randomPubkey(t)))
}
