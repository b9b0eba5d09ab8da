package solido

import (
	"bytes"
	"encoding/binary"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/solido-labs/solido-go/pkg/vm"
)

// testInvoker implements vm.Invoker with just enough native-program
// semantics to execute the processor's cross-program calls: system
// transfer/create, stake initialize/delegate, token mint-to. Calls into the
// stake pool program are recorded rather than executed.
type testInvoker struct {
	t         *testing.T
	programID solana.PublicKey

	poolDepositCalls []vm.Instruction
}

func (inv *testInvoker) Invoke(instr vm.Instruction, accounts []*vm.AccountInfo) error {
	return inv.InvokeSigned(instr, accounts, nil)
}

func (inv *testInvoker) InvokeSigned(instr vm.Instruction, accounts []*vm.AccountInfo, signerSeeds [][][]byte) error {
	derivedSigners := make(map[solana.PublicKey]bool)
	for _, seeds := range signerSeeds {
		addr, err := CreateProgramAddress(seeds, inv.programID)
		if err != nil {
			return err
		}
		derivedSigners[addr] = true
	}

	lookup := func(key solana.PublicKey) *vm.AccountInfo {
		for _, acct := range accounts {
			if acct.Key == key {
				return acct
			}
		}
		inv.t.Fatalf("account %s referenced by CPI but not passed", key)
		return nil
	}

	// the host refuses a nested call whose required signers are neither
	// transaction signers nor derived addresses vouched for by the caller
	for _, meta := range instr.Accounts {
		if !meta.IsSigner {
			continue
		}
		acct := lookup(meta.Pubkey)
		if !acct.IsSigner && !derivedSigners[meta.Pubkey] {
			return ErrInvalidAccountInfo
		}
	}

	switch instr.ProgramID {
	case solana.SystemProgramID:
		tag := binary.LittleEndian.Uint32(instr.Data)
		from := lookup(instr.Accounts[0].Pubkey)
		switch tag {
		case SystemInstrTypeCreateAccount:
			newAcct := lookup(instr.Accounts[1].Pubkey)
			lamports := binary.LittleEndian.Uint64(instr.Data[4:12])
			space := binary.LittleEndian.Uint64(instr.Data[12:20])
			var owner solana.PublicKey
			copy(owner[:], instr.Data[20:52])
			require.GreaterOrEqual(inv.t, from.Lamports, lamports)
			from.Lamports -= lamports
			newAcct.Lamports += lamports
			newAcct.Data = make([]byte, space)
			newAcct.Owner = owner
		case SystemInstrTypeTransfer:
			to := lookup(instr.Accounts[1].Pubkey)
			lamports := binary.LittleEndian.Uint64(instr.Data[4:12])
			if from.Lamports < lamports {
				return ErrInvalidAmount
			}
			from.Lamports -= lamports
			to.Lamports += lamports
		default:
			inv.t.Fatalf("unexpected system instruction tag %d", tag)
		}
	case StakeProgramAddr:
		tag := binary.LittleEndian.Uint32(instr.Data)
		stake := lookup(instr.Accounts[0].Pubkey)
		switch tag {
		case StakeInstrTypeInitialize:
			if len(stake.Data) != StakeStateSize {
				return ErrWrongStakeState
			}
			binary.LittleEndian.PutUint32(stake.Data, StakeStateTypeInitialized)
		case StakeInstrTypeDelegateStake:
			if binary.LittleEndian.Uint32(stake.Data) != StakeStateTypeInitialized {
				return ErrWrongStakeState
			}
			binary.LittleEndian.PutUint32(stake.Data, StakeStateTypeStake)
		default:
			inv.t.Fatalf("unexpected stake instruction tag %d", tag)
		}
	case TokenProgramAddr:
		switch instr.Data[0] {
		case TokenInstrTypeMintTo:
			mintAcct := lookup(instr.Accounts[0].Pubkey)
			destAcct := lookup(instr.Accounts[1].Pubkey)
			amount := binary.LittleEndian.Uint64(instr.Data[1:9])

			mint, err := UnpackTokenMint(mintAcct)
			if err != nil {
				return err
			}
			if mint.MintAuthority == nil || *mint.MintAuthority != instr.Accounts[2].Pubkey {
				return ErrInvalidOwner
			}
			dest, err := UnpackTokenAccount(destAcct)
			if err != nil {
				return err
			}
			dest.Amount += amount
			mint.Supply += amount
			require.NoError(inv.t, dest.Pack(destAcct))
			require.NoError(inv.t, mint.Pack(mintAcct))
		default:
			inv.t.Fatalf("unexpected token instruction tag %d", instr.Data[0])
		}
	default:
		inv.poolDepositCalls = append(inv.poolDepositCalls, instr)
	}
	return nil
}

func testRent() vm.Rent {
	return vm.DefaultRent()
}

func rentSysvarAccount(t *testing.T) *vm.AccountInfo {
	rent := testRent()
	writer := new(bytes.Buffer)
	require.NoError(t, rent.MarshalWithEncoder(bin.NewBinEncoder(writer)))
	return &vm.AccountInfo{
		Key:  vm.SysvarRentAddr,
		Data: writer.Bytes(),
	}
}

func readonlyAccount(key solana.PublicKey) *vm.AccountInfo {
	return &vm.AccountInfo{Key: key}
}

// tokenAccountInfo builds an initialized SPL token account with the given
// holdings.
func tokenAccountInfo(t *testing.T, key, mint, owner solana.PublicKey, amount uint64) *vm.AccountInfo {
	acct := &vm.AccountInfo{
		Key:   key,
		Owner: TokenProgramAddr,
		Data:  make([]byte, TokenAccountSize),
	}
	token := &TokenAccount{
		Mint:   mint,
		Owner:  owner,
		Amount: amount,
		State:  TokenAccountStateInitialized,
	}
	require.NoError(t, token.Pack(acct))
	return acct
}

func tokenMintInfo(t *testing.T, key solana.PublicKey, authority solana.PublicKey, supply uint64) *vm.AccountInfo {
	acct := &vm.AccountInfo{
		Key:   key,
		Owner: TokenProgramAddr,
		Data:  make([]byte, TokenMintSize),
	}
	mint := &TokenMint{
		MintAuthority: &authority,
		Supply:        supply,
		Decimals:      9,
		IsInitialized: true,
	}
	require.NoError(t, mint.Pack(acct))
	return acct
}

func stakePoolAccountInfo(t *testing.T, key solana.PublicKey, pool *StakePool) *vm.AccountInfo {
	writer := new(bytes.Buffer)
	require.NoError(t, pool.MarshalWithEncoder(bin.NewBinEncoder(writer)))
	rent := testRent()
	return &vm.AccountInfo{
		Key:      key,
		Data:     writer.Bytes(),
		Lamports: rent.MinimumBalance(uint64(writer.Len())),
	}
}

func lidoAccountInfo(t *testing.T, key solana.PublicKey, maxValidators, maxMaintainers uint32) *vm.AccountInfo {
	size := RequiredBytes(maxValidators, maxMaintainers)
	rent := testRent()
	return &vm.AccountInfo{
		Key:      key,
		Data:     make([]byte, size),
		Lamports: rent.MinimumBalance(size),
	}
}

// accountInfosForInstruction applies the instruction's account metas to the
// registered accounts, yielding the ordered flagged list a host would pass
// into the program.
func accountInfosForInstruction(t *testing.T, instr vm.Instruction, registry []*vm.AccountInfo) []*vm.AccountInfo {
	byKey := make(map[solana.PublicKey]*vm.AccountInfo)
	for _, acct := range registry {
		byKey[acct.Key] = acct
	}
	infos := make([]*vm.AccountInfo, len(instr.Accounts))
	for i, meta := range instr.Accounts {
		acct, ok := byKey[meta.Pubkey]
		if !ok {
			acct = readonlyAccount(meta.Pubkey)
		}
		acct.IsSigner = meta.IsSigner
		acct.IsWritable = meta.IsWritable
		infos[i] = acct
	}
	return infos
}

func mustFindAuthority(t *testing.T, lido solana.PublicKey, seed []byte, programID solana.PublicKey) DerivedAuthority {
	authority, err := FindAuthority(lido, seed, programID)
	require.NoError(t, err)
	return authority
}

func randomPubkey(t *testing.T) solana.PublicKey {
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	return key.PublicKey()
}
