package solido

import (
	"k8s.io/klog/v2"

	"github.com/solido-labs/solido-go/pkg/vm"
)

// accountRole is one row of an instruction's account contract: the account
// at this position must carry exactly these flags.
type accountRole struct {
	name     string
	signer   bool
	writable bool
}

// bindAccounts checks the caller-supplied ordered account list against a
// role table. The list is untrusted: every declared role must be present in
// the declared order with the declared flags, exactly once, and nothing may
// follow the last role. Position is the only thing that assigns meaning to
// an account; identity checks are the handler's job.
func bindAccounts(accounts []*vm.AccountInfo, roles []accountRole) ([]*vm.AccountInfo, error) {
	if len(accounts) < len(roles) {
		return nil, ErrNotEnoughAccountKeys
	}
	if len(accounts) > len(roles) {
		return nil, ErrTooManyAccountKeys
	}
	for i, role := range roles {
		if accounts[i].IsSigner != role.signer || accounts[i].IsWritable != role.writable {
			klog.Infof("account %d (%s) has flags signer=%v writable=%v, want signer=%v writable=%v",
				i, role.name, accounts[i].IsSigner, accounts[i].IsWritable, role.signer, role.writable)
			return nil, ErrInvalidAccountInfo
		}
	}
	return accounts[:len(roles)], nil
}

var initializeAccountRoles = []accountRole{
	{"lido", true, true},
	{"manager", false, false},
	{"st_sol_mint", false, false},
	{"stake_pool", false, false},
	{"pool_token_to", false, false},
	{"fee_token", false, false},
	{"insurance_account", false, false},
	{"treasury_account", false, false},
	{"manager_fee_account", false, false},
	{"reserve_account", false, false},
	{"sysvar_rent", false, false},
	{"spl_token", false, false},
}

type initializeAccounts struct {
	lido              *vm.AccountInfo
	manager           *vm.AccountInfo
	stSolMint         *vm.AccountInfo
	stakePool         *vm.AccountInfo
	poolTokenTo       *vm.AccountInfo
	feeToken          *vm.AccountInfo
	insuranceAccount  *vm.AccountInfo
	treasuryAccount   *vm.AccountInfo
	managerFeeAccount *vm.AccountInfo
	reserveAccount    *vm.AccountInfo
	sysvarRent        *vm.AccountInfo
	splToken          *vm.AccountInfo
}

func bindInitializeAccounts(accounts []*vm.AccountInfo) (*initializeAccounts, error) {
	bound, err := bindAccounts(accounts, initializeAccountRoles)
	if err != nil {
		return nil, err
	}
	return &initializeAccounts{
		lido:              bound[0],
		manager:           bound[1],
		stSolMint:         bound[2],
		stakePool:         bound[3],
		poolTokenTo:       bound[4],
		feeToken:          bound[5],
		insuranceAccount:  bound[6],
		treasuryAccount:   bound[7],
		managerFeeAccount: bound[8],
		reserveAccount:    bound[9],
		sysvarRent:        bound[10],
		splToken:          bound[11],
	}, nil
}

var depositAccountRoles = []accountRole{
	{"lido", false, true},
	{"stake_pool", false, false},
	{"pool_token_to", false, false},
	{"manager", false, false},
	{"user", true, true},
	{"recipient", false, true},
	{"st_sol_mint", false, true},
	{"spl_token", false, false},
	{"reserve_account", false, true},
	{"sysvar_rent", false, false},
	{"system_program", false, false},
}

type depositAccounts struct {
	lido           *vm.AccountInfo
	stakePool      *vm.AccountInfo
	poolTokenTo    *vm.AccountInfo
	manager        *vm.AccountInfo
	user           *vm.AccountInfo
	recipient      *vm.AccountInfo
	stSolMint      *vm.AccountInfo
	splToken       *vm.AccountInfo
	reserveAccount *vm.AccountInfo
	sysvarRent     *vm.AccountInfo
	systemProgram  *vm.AccountInfo
}

func bindDepositAccounts(accounts []*vm.AccountInfo) (*depositAccounts, error) {
	bound, err := bindAccounts(accounts, depositAccountRoles)
	if err != nil {
		return nil, err
	}
	return &depositAccounts{
		lido:           bound[0],
		stakePool:      bound[1],
		poolTokenTo:    bound[2],
		manager:        bound[3],
		user:           bound[4],
		recipient:      bound[5],
		stSolMint:      bound[6],
		splToken:       bound[7],
		reserveAccount: bound[8],
		sysvarRent:     bound[9],
		systemProgram:  bound[10],
	}, nil
}

var stakeDepositAccountRoles = []accountRole{
	{"lido", false, false},
	{"validator", false, false},
	{"reserve", false, true},
	{"stake", false, true},
	{"deposit_authority", false, false},
	{"sysvar_clock", false, false},
	{"system_program", false, false},
	{"sysvar_rent", false, false},
	{"stake_program", false, false},
	{"stake_history", false, false},
	{"stake_program_config", false, false},
}

type stakeDepositAccounts struct {
	lido               *vm.AccountInfo
	validator          *vm.AccountInfo
	reserve            *vm.AccountInfo
	stake              *vm.AccountInfo
	depositAuthority   *vm.AccountInfo
	sysvarClock        *vm.AccountInfo
	systemProgram      *vm.AccountInfo
	sysvarRent         *vm.AccountInfo
	stakeProgram       *vm.AccountInfo
	stakeHistory       *vm.AccountInfo
	stakeProgramConfig *vm.AccountInfo
}

func bindStakeDepositAccounts(accounts []*vm.AccountInfo) (*stakeDepositAccounts, error) {
	bound, err := bindAccounts(accounts, stakeDepositAccountRoles)
	if err != nil {
		return nil, err
	}
	return &stakeDepositAccounts{
		lido:               bound[0],
		validator:          bound[1],
		reserve:            bound[2],
		stake:              bound[3],
		depositAuthority:   bound[4],
		sysvarClock:        bound[5],
		systemProgram:      bound[6],
		sysvarRent:         bound[7],
		stakeProgram:       bound[8],
		stakeHistory:       bound[9],
		stakeProgramConfig: bound[10],
	}, nil
}

var depositActiveStakeToPoolAccountRoles = []accountRole{
	{"lido", false, false},
	{"maintainer", true, false},
	{"validator", false, false},
	{"stake", false, true},
	{"deposit_authority", false, false},
	{"pool_token_to", false, true},
	{"stake_pool_program", false, false},
	{"stake_pool", false, true},
	{"stake_pool_validator_list", false, true},
	{"stake_pool_withdraw_authority", false, false},
	{"stake_pool_validator_stake_account", false, true},
	{"stake_pool_mint", false, true},
	{"sysvar_clock", false, false},
	{"stake_history", false, false},
	{"sysvar_rent", false, false},
	{"spl_token", false, false},
	{"stake_program", false, false},
	{"system_program", false, false},
}

type depositActiveStakeToPoolAccounts struct {
	lido                    *vm.AccountInfo
	maintainer              *vm.AccountInfo
	validator               *vm.AccountInfo
	stake                   *vm.AccountInfo
	depositAuthority        *vm.AccountInfo
	poolTokenTo             *vm.AccountInfo
	stakePoolProgram        *vm.AccountInfo
	stakePool               *vm.AccountInfo
	stakePoolValidatorList  *vm.AccountInfo
	stakePoolWithdrawAuth   *vm.AccountInfo
	stakePoolValidatorStake *vm.AccountInfo
	stakePoolMint           *vm.AccountInfo
	sysvarClock             *vm.AccountInfo
	stakeHistory            *vm.AccountInfo
	sysvarRent              *vm.AccountInfo
	splToken                *vm.AccountInfo
	stakeProgram            *vm.AccountInfo
	systemProgram           *vm.AccountInfo
}

func bindDepositActiveStakeToPoolAccounts(accounts []*vm.AccountInfo) (*depositActiveStakeToPoolAccounts, error) {
	bound, err := bindAccounts(accounts, depositActiveStakeToPoolAccountRoles)
	if err != nil {
		return nil, err
	}
	return &depositActiveStakeToPoolAccounts{
		lido:                    bound[0],
		maintainer:              bound[1],
		validator:               bound[2],
		stake:                   bound[3],
		depositAuthority:        bound[4],
		poolTokenTo:             bound[5],
		stakePoolProgram:        bound[6],
		stakePool:               bound[7],
		stakePoolValidatorList:  bound[8],
		stakePoolWithdrawAuth:   bound[9],
		stakePoolValidatorStake: bound[10],
		stakePoolMint:           bound[11],
		sysvarClock:             bound[12],
		stakeHistory:            bound[13],
		sysvarRent:              bound[14],
		splToken:                bound[15],
		stakeProgram:            bound[16],
		systemProgram:           bound[17],
	}, nil
}
