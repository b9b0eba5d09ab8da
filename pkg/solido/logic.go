package solido

import (
	"k8s.io/klog/v2"

	"github.com/gagliardetto/solana-go"
	"github.com/solido-labs/solido-go/pkg/safemath"
	"github.com/solido-labs/solido-go/pkg/vm"
)

// AccountType names the account being rent-checked, for logs only.
type AccountType int

const (
	AccountTypeStakePoolAccount AccountType = iota
	AccountTypeLidoAccount
	AccountTypeReserveAccount
)

func (at AccountType) String() string {
	switch at {
	case AccountTypeStakePoolAccount:
		return "stake pool"
	case AccountTypeLidoAccount:
		return "solido state"
	case AccountTypeReserveAccount:
		return "reserve"
	default:
		return "unknown"
	}
}

// rentExemption requires the account to hold the rent-exempt minimum for
// its allocation. Accounts below the floor may be reclaimed by the host, so
// no persistent state may live in them.
func rentExemption(rent *vm.Rent, acct *vm.AccountInfo, accountType AccountType) error {
	if !rent.IsExempt(acct.Lamports, acct.DataLen()) {
		klog.Infof("%s account %s is not rent-exempt (%d lamports for %d bytes)",
			accountType, acct.Key, acct.Lamports, acct.DataLen())
		return ErrInvalidAmount
	}
	return nil
}

// reserveAvailableAmount is the reserve balance spendable above its own
// rent-exemption floor.
func reserveAvailableAmount(reserve *vm.AccountInfo, rent *vm.Rent) (uint64, error) {
	available, err := safemath.CheckedSubU64(reserve.Lamports, rent.MinimumBalance(reserve.DataLen()))
	if err != nil {
		return 0, ErrCalculationFailure
	}
	return available, nil
}

// calcTotalLamports is the total native value under management at this
// moment: the program's pool-token holdings valued through the pool
// exchange rate, plus the reserve's spendable excess.
func calcTotalLamports(stakePool *StakePool, poolTokenAccount *TokenAccount, reserve *vm.AccountInfo, rent *vm.Rent) (uint64, error) {
	stakedLamports, err := stakePool.CalcLamportsForPoolTokens(poolTokenAccount.Amount)
	if err != nil {
		return 0, err
	}
	reserveLamports, err := reserveAvailableAmount(reserve, rent)
	if err != nil {
		return 0, err
	}
	total, err := safemath.CheckedAddU64(stakedLamports, reserveLamports)
	if err != nil {
		return 0, ErrCalculationFailure
	}
	return total, nil
}

// checkReserveAuthority re-derives the reserve authority from the solido
// account and requires candidate to match. Re-derivation is the only proof
// that an address is program-controlled.
func checkReserveAuthority(lidoAccount *vm.AccountInfo, programID solana.PublicKey, candidate *vm.AccountInfo) error {
	authority, err := FindAuthority(lidoAccount.Key, ReserveAuthoritySeed, programID)
	if err != nil {
		return err
	}
	if authority.Address != candidate.Key {
		klog.Infof("invalid reserve authority: got %s, want %s", candidate.Key, authority.Address)
		return ErrInvalidReserveAuthority
	}
	return nil
}

// tokenMintTo mints stSol to recipient, signed by the derived authority
// identified by (authoritySeed, bump) on the solido account.
func tokenMintTo(
	lidoAccount solana.PublicKey,
	invoker vm.Invoker,
	splToken *vm.AccountInfo,
	mint *vm.AccountInfo,
	recipient *vm.AccountInfo,
	authority *vm.AccountInfo,
	authoritySeed []byte,
	bump byte,
	amount uint64,
) error {
	instr := NewTokenMintToInstruction(mint.Key, recipient.Key, authority.Key, amount)
	return invoker.InvokeSigned(
		instr,
		[]*vm.AccountInfo{mint, recipient, authority, splToken},
		[][][]byte{AuthoritySignerSeeds(lidoAccount, authoritySeed, bump)},
	)
}
