package solido

import (
	"k8s.io/klog/v2"

	"github.com/gagliardetto/solana-go"
	"github.com/solido-labs/solido-go/pkg/safemath"
	"github.com/solido-labs/solido-go/pkg/vm"
)

// Management executes the fee and validator-set instructions. Their
// semantics live outside this package; the processor only decodes them and
// routes them here.
type Management interface {
	Process(programID solana.PublicKey, instr Instruction, accounts []*vm.AccountInfo) error
}

type unimplementedManagement struct{}

func (unimplementedManagement) Process(programID solana.PublicKey, instr Instruction, accounts []*vm.AccountInfo) error {
	return ErrNotImplemented
}

// Processor is the program's single entry point: it decodes raw instruction
// bytes, validates the caller-supplied account list and runs exactly one
// state transition. Handlers never write state until every check has
// passed; an error return must leave every account untouched, which
// together with the host's atomic commit makes any failure a full no-op.
type Processor struct {
	Invoker    vm.Invoker
	Management Management
}

func NewProcessor(invoker vm.Invoker) *Processor {
	return &Processor{
		Invoker:    invoker,
		Management: unimplementedManagement{},
	}
}

// Process handles one instruction.
func (p *Processor) Process(programID solana.PublicKey, accounts []*vm.AccountInfo, input []byte) error {
	instr, err := DecodeInstruction(input)
	if err != nil {
		return err
	}

	switch instr := instr.(type) {
	case *InstrInitialize:
		return p.processInitialize(programID, instr, accounts)
	case *InstrDeposit:
		return p.processDeposit(programID, instr.Amount, accounts)
	case *InstrStakeDeposit:
		return p.processStakeDeposit(programID, instr.Amount, accounts)
	case *InstrDepositActiveStakeToPool:
		return p.processDepositActiveStakeToPool(programID, accounts)
	case *InstrWithdraw:
		return p.processWithdraw(programID, instr.Amount, accounts)
	default:
		return p.Management.Process(programID, instr, accounts)
	}
}

func checkMintedBy(mint solana.PublicKey, acct *vm.AccountInfo) error {
	token, err := UnpackTokenAccount(acct)
	if err != nil {
		return err
	}
	if token.Mint != mint {
		klog.Infof("fee recipient %s is not minted by %s", acct.Key, mint)
		return ErrInvalidTokenMinter
	}
	return nil
}

func (p *Processor) processInitialize(programID solana.PublicKey, instr *InstrInitialize, raw []*vm.AccountInfo) error {
	accounts, err := bindInitializeAccounts(raw)
	if err != nil {
		return err
	}

	rent, err := vm.RentFromAccountInfo(accounts.sysvarRent)
	if err != nil {
		return ErrInvalidAccountInfo
	}
	if err := rentExemption(&rent, accounts.stakePool, AccountTypeStakePoolAccount); err != nil {
		return err
	}
	if err := rentExemption(&rent, accounts.lido, AccountTypeLidoAccount); err != nil {
		return err
	}
	if err := rentExemption(&rent, accounts.reserveAccount, AccountTypeReserveAccount); err != nil {
		return err
	}

	lido, err := LidoFromAccountInfo(accounts.lido)
	if err != nil {
		return ErrInvalidAccountInfo
	}
	if lido.IsInitialized() {
		return ErrAlreadyInUse
	}

	stakePool, err := StakePoolFromAccountInfo(accounts.stakePool)
	if err != nil {
		return ErrInvalidStakePool
	}
	if stakePool.IsUninitialized() {
		klog.Infof("provided stake pool %s not initialized", accounts.stakePool.Key)
		return ErrInvalidStakePool
	}

	// Fee recipients must be token accounts of the stSol mint.
	for _, recipient := range []*vm.AccountInfo{
		accounts.insuranceAccount,
		accounts.treasuryAccount,
		accounts.managerFeeAccount,
	} {
		if err := checkMintedBy(accounts.stSolMint.Key, recipient); err != nil {
			return err
		}
	}

	// The declared list sizes must exactly fill the account's allocation.
	// Inconsistent declared sizes underflow here and fail closed.
	bytesForMaintainers := MaintainersRequiredBytes(instr.MaxMaintainers)
	availableBytes, err := safemath.CheckedSubU64(accounts.lido.DataLen(), LidoConstantSize)
	if err != nil {
		return ErrCalculationFailure
	}
	availableBytes, err = safemath.CheckedSubU64(availableBytes, bytesForMaintainers)
	if err != nil {
		return ErrCalculationFailure
	}
	expectedMaxValidators := MaximumEntries(availableBytes)
	if expectedMaxValidators != uint64(instr.MaxValidators) || instr.MaxValidators == 0 {
		klog.Infof("incorrect validator list size provided, expected %d, provided %d",
			expectedMaxValidators, instr.MaxValidators)
		return ErrUnexpectedValidatorAccountSize
	}

	reserveAuthority, err := FindAuthority(accounts.lido.Key, ReserveAuthoritySeed, programID)
	if err != nil {
		return err
	}
	depositAuthority, err := FindAuthority(accounts.lido.Key, DepositAuthoritySeed, programID)
	if err != nil {
		return err
	}
	feeManagerAuthority, err := FindAuthority(accounts.lido.Key, FeeManagerAuthoritySeed, programID)
	if err != nil {
		return err
	}
	stakePoolAuthority, err := FindAuthority(accounts.lido.Key, StakePoolAuthoritySeed, programID)
	if err != nil {
		return err
	}

	// Initialize does not wire up the stake pool; it verifies the pool was
	// pre-arranged to be controlled by this instance's derived authorities.
	poolTokenTo, err := UnpackTokenAccount(accounts.poolTokenTo)
	if err != nil {
		return err
	}
	if stakePool.PoolMint != poolTokenTo.Mint {
		klog.Infof("pool token account has wrong minter %s, should be the stake pool minter %s",
			poolTokenTo.Mint, stakePool.PoolMint)
		return ErrInvalidTokenMinter
	}
	if stakePoolAuthority.Address != poolTokenTo.Owner {
		klog.Infof("wrong pool token account owner: %s", poolTokenTo.Owner)
		return ErrInvalidOwner
	}
	if stakePool.Staker != stakePoolAuthority.Address {
		klog.Infof("stake pool should be staked by the derived address %s", stakePoolAuthority.Address)
		return ErrInvalidManager
	}
	if stakePool.ManagerFeeAccount != accounts.feeToken.Key {
		klog.Infof("stake pool's manager fee account should be the fee token account")
		return ErrInvalidFeeAccount
	}
	feeToken, err := UnpackTokenAccount(accounts.feeToken)
	if err != nil {
		return err
	}
	if feeToken.Owner != feeManagerAuthority.Address {
		klog.Infof("fee account owner %s should be the fee manager authority", feeToken.Owner)
		return ErrInvalidOwner
	}

	lido.AccountType = AccountTypeLido
	lido.Manager = accounts.manager.Key
	lido.StSolMint = accounts.stSolMint.Key
	lido.StakePoolAccount = accounts.stakePool.Key
	lido.StakePoolTokenHolder = accounts.poolTokenTo.Key
	lido.TokenProgramID = accounts.splToken.Key
	lido.SolReserveAuthorityBumpSeed = reserveAuthority.Bump
	lido.DepositAuthorityBumpSeed = depositAuthority.Bump
	lido.FeeManagerBumpSeed = feeManagerAuthority.Bump
	lido.StakePoolAuthorityBumpSeed = stakePoolAuthority.Bump
	lido.FeeDistribution = instr.FeeDistribution
	lido.FeeRecipients = FeeRecipients{
		InsuranceAccount: accounts.insuranceAccount.Key,
		TreasuryAccount:  accounts.treasuryAccount.Key,
		ManagerAccount:   accounts.managerFeeAccount.Key,
		ValidatorCreditAccounts: ValidatorCreditAccounts{
			MaxValidators: instr.MaxValidators,
		},
	}
	lido.Maintainers = Maintainers{MaxMaintainers: instr.MaxMaintainers}

	return lido.Serialize(accounts.lido)
}

func (p *Processor) processDeposit(programID solana.PublicKey, amount uint64, raw []*vm.AccountInfo) error {
	accounts, err := bindDepositAccounts(raw)
	if err != nil {
		return err
	}

	if amount == 0 {
		klog.Infof("deposit amount must be greater than zero")
		return ErrInvalidArgument
	}

	lido, err := LidoFromAccountInfo(accounts.lido)
	if err != nil {
		return ErrInvalidAccountInfo
	}
	if !lido.IsInitialized() {
		return ErrInvalidAccountInfo
	}
	if err := lido.CheckLidoForDeposit(accounts.manager.Key, accounts.stakePool.Key, accounts.stSolMint.Key); err != nil {
		return err
	}
	if err := lido.CheckTokenProgramID(accounts.splToken.Key); err != nil {
		return err
	}
	if err := checkReserveAuthority(accounts.lido, programID, accounts.reserveAccount); err != nil {
		return err
	}
	if err := lido.CheckStakePool(accounts.stakePool); err != nil {
		return err
	}

	stakePool, err := StakePoolFromAccountInfo(accounts.stakePool)
	if err != nil {
		return ErrInvalidStakePool
	}
	poolTokenTo, err := UnpackTokenAccount(accounts.poolTokenTo)
	if err != nil {
		return err
	}
	rent, err := vm.RentFromAccountInfo(accounts.sysvarRent)
	if err != nil {
		return ErrInvalidAccountInfo
	}

	// Value under management is read before the transfer lands so the
	// depositor does not dilute themselves.
	totalLamports, err := calcTotalLamports(stakePool, poolTokenTo, accounts.reserveAccount, &rent)
	if err != nil {
		return err
	}

	transfer := NewSystemTransferInstruction(accounts.user.Key, accounts.reserveAccount.Key, amount)
	err = p.Invoker.Invoke(transfer, []*vm.AccountInfo{accounts.user, accounts.reserveAccount, accounts.systemProgram})
	if err != nil {
		return err
	}

	stSolAmount, err := lido.CalcPoolTokensForDeposit(amount, totalLamports)
	if err != nil {
		return err
	}

	err = tokenMintTo(
		accounts.lido.Key,
		p.Invoker,
		accounts.splToken,
		accounts.stSolMint,
		accounts.recipient,
		accounts.reserveAccount,
		ReserveAuthoritySeed,
		lido.SolReserveAuthorityBumpSeed,
		stSolAmount,
	)
	if err != nil {
		return err
	}

	totalShares, err := safemath.CheckedAddU64(lido.StSolTotalShares, stSolAmount)
	if err != nil {
		return ErrCalculationFailure
	}
	lido.StSolTotalShares = totalShares

	return lido.Serialize(accounts.lido)
}

func (p *Processor) processStakeDeposit(programID solana.PublicKey, amount uint64, raw []*vm.AccountInfo) error {
	accounts, err := bindStakeDepositAccounts(raw)
	if err != nil {
		return err
	}

	rent, err := vm.RentFromAccountInfo(accounts.sysvarRent)
	if err != nil {
		return ErrInvalidAccountInfo
	}
	lido, err := LidoFromAccountInfo(accounts.lido)
	if err != nil {
		return ErrInvalidAccountInfo
	}

	stakeAddr, stakeBump, err := FindValidatorStakeAddress(accounts.validator.Key, programID)
	if err != nil {
		return err
	}
	if stakeAddr != accounts.stake.Key {
		return ErrInvalidStaker
	}

	reserveAuthority, err := FindAuthority(accounts.lido.Key, ReserveAuthoritySeed, programID)
	if err != nil {
		return err
	}
	if accounts.reserve.Key != reserveAuthority.Address {
		return ErrInvalidReserveAuthority
	}

	if amount < rent.MinimumBalance(StakeStateSize) {
		return ErrInvalidAmount
	}
	availableReserveAmount, err := reserveAvailableAmount(accounts.reserve, &rent)
	if err != nil {
		return err
	}
	if amount > availableReserveAmount {
		klog.Infof("requested amount %d is greater than the amount %d available above the reserve's rent exemption",
			amount, availableReserveAmount)
		return ErrAmountExceedsReserve
	}

	// Creating the same derived stake record twice requires an intervening
	// account closure.
	if IsDelegatedStake(accounts.stake) {
		return ErrWrongStakeState
	}

	reserveSeeds := AuthoritySignerSeeds(accounts.lido.Key, ReserveAuthoritySeed, lido.SolReserveAuthorityBumpSeed)
	stakeSeeds := ValidatorStakeSignerSeeds(accounts.validator.Key, stakeBump)

	createAccount := NewSystemCreateAccountInstruction(
		accounts.reserve.Key,
		accounts.stake.Key,
		amount,
		StakeStateSize,
		StakeProgramAddr,
	)
	err = p.Invoker.InvokeSigned(
		createAccount,
		[]*vm.AccountInfo{accounts.reserve, accounts.stake, accounts.systemProgram},
		[][][]byte{reserveSeeds, stakeSeeds},
	)
	if err != nil {
		return err
	}

	initialize := NewStakeInitializeInstruction(accounts.stake.Key, StakeAuthorized{
		Staker:     accounts.depositAuthority.Key,
		Withdrawer: accounts.depositAuthority.Key,
	})
	err = p.Invoker.Invoke(initialize, []*vm.AccountInfo{accounts.stake, accounts.sysvarRent, accounts.stakeProgram})
	if err != nil {
		return err
	}

	delegate := NewStakeDelegateInstruction(accounts.stake.Key, accounts.depositAuthority.Key, accounts.validator.Key)
	return p.Invoker.InvokeSigned(
		delegate,
		[]*vm.AccountInfo{
			accounts.stake,
			accounts.validator,
			accounts.sysvarClock,
			accounts.stakeHistory,
			accounts.stakeProgramConfig,
			accounts.depositAuthority,
		},
		[][][]byte{AuthoritySignerSeeds(accounts.lido.Key, DepositAuthoritySeed, lido.DepositAuthorityBumpSeed)},
	)
}

func (p *Processor) processDepositActiveStakeToPool(programID solana.PublicKey, raw []*vm.AccountInfo) error {
	accounts, err := bindDepositActiveStakeToPoolAccounts(raw)
	if err != nil {
		return err
	}

	lido, err := LidoFromAccountInfo(accounts.lido)
	if err != nil {
		return ErrInvalidAccountInfo
	}
	if err := lido.CheckStakePool(accounts.stakePool); err != nil {
		return err
	}
	if err := lido.CheckMaintainer(accounts.maintainer); err != nil {
		return err
	}

	stakeAddr, _, err := FindValidatorStakeAddress(accounts.validator.Key, programID)
	if err != nil {
		return err
	}
	if stakeAddr != accounts.stake.Key {
		return ErrInvalidStaker
	}

	if lido.StakePoolTokenHolder != accounts.poolTokenTo.Key {
		klog.Infof("invalid stake pool token holder %s", accounts.poolTokenTo.Key)
		return ErrInvalidPoolToken
	}

	deposit := NewStakePoolDepositInstruction(accounts.stakePoolProgram.Key, &StakePoolDepositAccountsMeta{
		StakePool:             accounts.stakePool.Key,
		ValidatorListStorage:  accounts.stakePoolValidatorList.Key,
		DepositAuthority:      accounts.depositAuthority.Key,
		WithdrawAuthority:     accounts.stakePoolWithdrawAuth.Key,
		DepositStakeAddress:   accounts.stake.Key,
		ValidatorStakeAccount: accounts.stakePoolValidatorStake.Key,
		PoolTokensTo:          accounts.poolTokenTo.Key,
		PoolMint:              accounts.stakePoolMint.Key,
		TokenProgramID:        accounts.splToken.Key,
	})
	return p.Invoker.InvokeSigned(
		deposit,
		[]*vm.AccountInfo{
			accounts.stakePoolProgram,
			accounts.stakePool,
			accounts.stakePoolValidatorList,
			accounts.depositAuthority,
			accounts.stakePoolWithdrawAuth,
			accounts.stake,
			accounts.stakePoolValidatorStake,
			accounts.poolTokenTo,
			accounts.stakePoolMint,
			accounts.splToken,
		},
		[][][]byte{AuthoritySignerSeeds(accounts.lido.Key, DepositAuthoritySeed, lido.DepositAuthorityBumpSeed)},
	)
}

// processWithdraw deliberately performs no state mutation and returns
// success.
// TODO: specify burn/redeem semantics before enabling withdrawals.
func (p *Processor) processWithdraw(programID solana.PublicKey, amount uint64, raw []*vm.AccountInfo) error {
	return nil
}
