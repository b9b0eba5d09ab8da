package solido

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/solido-labs/solido-go/pkg/safemath"
	"github.com/solido-labs/solido-go/pkg/vm"
)

const (
	AccountTypeUninitialized = iota
	AccountTypeLido
)

// LidoConstantSize is the serialized size of everything except the dynamic
// validator-credit and maintainer entries: account type (1), five pubkeys
// (160), total shares (8), four bump seeds (4), fee distribution (16),
// three fee recipient pubkeys (96), and the two list headers (8 + 8).
const LidoConstantSize = 1 + 5*32 + 8 + 4 + 16 + 3*32 + 8 + 8

// ValidatorCreditEntrySize is 32 bytes of address plus a u64 credit.
const ValidatorCreditEntrySize = 40

// FeeDistribution is the split of collected rewards, expressed as
// numerators over their sum.
type FeeDistribution struct {
	InsuranceFee  uint32
	TreasuryFee   uint32
	ValidationFee uint32
	ManagerFee    uint32
}

func (fd *FeeDistribution) Sum() uint64 {
	return uint64(fd.InsuranceFee) + uint64(fd.TreasuryFee) + uint64(fd.ValidationFee) + uint64(fd.ManagerFee)
}

func (fd *FeeDistribution) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	fd.InsuranceFee, err = decoder.ReadUint32(bin.LE)
	if err != nil {
		return err
	}
	fd.TreasuryFee, err = decoder.ReadUint32(bin.LE)
	if err != nil {
		return err
	}
	fd.ValidationFee, err = decoder.ReadUint32(bin.LE)
	if err != nil {
		return err
	}
	fd.ManagerFee, err = decoder.ReadUint32(bin.LE)
	return err
}

func (fd *FeeDistribution) MarshalWithEncoder(encoder *bin.Encoder) error {
	_ = encoder.WriteUint32(fd.InsuranceFee, bin.LE)
	_ = encoder.WriteUint32(fd.TreasuryFee, bin.LE)
	_ = encoder.WriteUint32(fd.ValidationFee, bin.LE)
	return encoder.WriteUint32(fd.ManagerFee, bin.LE)
}

type ValidatorCredit struct {
	Address solana.PublicKey
	Amount  uint64
}

// ValidatorCreditAccounts tracks per-validator fee credits. The entry list
// grows up to MaxValidators, fixed at initialize time by the account's
// allocation.
type ValidatorCreditAccounts struct {
	MaxValidators uint32
	Entries       []ValidatorCredit
}

// MaximumEntries returns how many validator credit entries fit in
// availableBytes.
func MaximumEntries(availableBytes uint64) uint64 {
	return availableBytes / ValidatorCreditEntrySize
}

func (vca *ValidatorCreditAccounts) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	vca.MaxValidators, err = decoder.ReadUint32(bin.LE)
	if err != nil {
		return err
	}
	numEntries, err := decoder.ReadUint32(bin.LE)
	if err != nil {
		return err
	}
	if numEntries == 0 {
		vca.Entries = nil
		return nil
	}
	vca.Entries = make([]ValidatorCredit, numEntries)
	for i := range vca.Entries {
		pk, err := decoder.ReadBytes(solana.PublicKeyLength)
		if err != nil {
			return err
		}
		copy(vca.Entries[i].Address[:], pk)
		vca.Entries[i].Amount, err = decoder.ReadUint64(bin.LE)
		if err != nil {
			return err
		}
	}
	return nil
}

func (vca *ValidatorCreditAccounts) MarshalWithEncoder(encoder *bin.Encoder) error {
	_ = encoder.WriteUint32(vca.MaxValidators, bin.LE)
	_ = encoder.WriteUint32(uint32(len(vca.Entries)), bin.LE)
	for _, entry := range vca.Entries {
		_ = encoder.WriteBytes(entry.Address[:], false)
		if err := encoder.WriteUint64(entry.Amount, bin.LE); err != nil {
			return err
		}
	}
	return nil
}

// FeeRecipients names the token accounts credited when fees are
// distributed.
type FeeRecipients struct {
	InsuranceAccount        solana.PublicKey
	TreasuryAccount         solana.PublicKey
	ManagerAccount          solana.PublicKey
	ValidatorCreditAccounts ValidatorCreditAccounts
}

func (fr *FeeRecipients) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	for _, pk := range []*solana.PublicKey{&fr.InsuranceAccount, &fr.TreasuryAccount, &fr.ManagerAccount} {
		b, err := decoder.ReadBytes(solana.PublicKeyLength)
		if err != nil {
			return err
		}
		copy(pk[:], b)
	}
	return fr.ValidatorCreditAccounts.UnmarshalWithDecoder(decoder)
}

func (fr *FeeRecipients) MarshalWithEncoder(encoder *bin.Encoder) error {
	_ = encoder.WriteBytes(fr.InsuranceAccount[:], false)
	_ = encoder.WriteBytes(fr.TreasuryAccount[:], false)
	_ = encoder.WriteBytes(fr.ManagerAccount[:], false)
	return fr.ValidatorCreditAccounts.MarshalWithEncoder(encoder)
}

// Maintainers is the set of identities allowed to run pool maintenance
// instructions.
type Maintainers struct {
	MaxMaintainers uint32
	Entries        []solana.PublicKey
}

// MaintainersRequiredBytes is the entry space that must be reserved in the
// account allocation for maxMaintainers entries; the list header is part of
// LidoConstantSize.
func MaintainersRequiredBytes(maxMaintainers uint32) uint64 {
	return uint64(maxMaintainers) * solana.PublicKeyLength
}

func (m *Maintainers) Contains(key solana.PublicKey) bool {
	for _, entry := range m.Entries {
		if entry == key {
			return true
		}
	}
	return false
}

func (m *Maintainers) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	m.MaxMaintainers, err = decoder.ReadUint32(bin.LE)
	if err != nil {
		return err
	}
	numEntries, err := decoder.ReadUint32(bin.LE)
	if err != nil {
		return err
	}
	if numEntries == 0 {
		m.Entries = nil
		return nil
	}
	m.Entries = make([]solana.PublicKey, numEntries)
	for i := range m.Entries {
		b, err := decoder.ReadBytes(solana.PublicKeyLength)
		if err != nil {
			return err
		}
		copy(m.Entries[i][:], b)
	}
	return nil
}

func (m *Maintainers) MarshalWithEncoder(encoder *bin.Encoder) error {
	_ = encoder.WriteUint32(m.MaxMaintainers, bin.LE)
	if err := encoder.WriteUint32(uint32(len(m.Entries)), bin.LE); err != nil {
		return err
	}
	for _, entry := range m.Entries {
		if err := encoder.WriteBytes(entry[:], false); err != nil {
			return err
		}
	}
	return nil
}

// Lido is the persistent state record, one per staking-program instance.
type Lido struct {
	AccountType          byte
	Manager              solana.PublicKey
	StSolMint            solana.PublicKey
	StakePoolAccount     solana.PublicKey
	StakePoolTokenHolder solana.PublicKey
	TokenProgramID       solana.PublicKey
	StSolTotalShares     uint64

	// bump seeds of the four derived authorities; each is the unique
	// value making its role derivation land off-curve
	SolReserveAuthorityBumpSeed byte
	DepositAuthorityBumpSeed    byte
	FeeManagerBumpSeed          byte
	StakePoolAuthorityBumpSeed  byte

	FeeDistribution FeeDistribution
	FeeRecipients   FeeRecipients
	Maintainers     Maintainers
}

func (lido *Lido) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	lido.AccountType, err = decoder.ReadByte()
	if err != nil {
		return err
	}
	for _, pk := range []*solana.PublicKey{
		&lido.Manager,
		&lido.StSolMint,
		&lido.StakePoolAccount,
		&lido.StakePoolTokenHolder,
		&lido.TokenProgramID,
	} {
		b, err := decoder.ReadBytes(solana.PublicKeyLength)
		if err != nil {
			return err
		}
		copy(pk[:], b)
	}
	lido.StSolTotalShares, err = decoder.ReadUint64(bin.LE)
	if err != nil {
		return err
	}
	for _, bump := range []*byte{
		&lido.SolReserveAuthorityBumpSeed,
		&lido.DepositAuthorityBumpSeed,
		&lido.FeeManagerBumpSeed,
		&lido.StakePoolAuthorityBumpSeed,
	} {
		*bump, err = decoder.ReadByte()
		if err != nil {
			return err
		}
	}
	if err = lido.FeeDistribution.UnmarshalWithDecoder(decoder); err != nil {
		return err
	}
	if err = lido.FeeRecipients.UnmarshalWithDecoder(decoder); err != nil {
		return err
	}
	return lido.Maintainers.UnmarshalWithDecoder(decoder)
}

func (lido *Lido) MarshalWithEncoder(encoder *bin.Encoder) error {
	_ = encoder.WriteByte(lido.AccountType)
	_ = encoder.WriteBytes(lido.Manager[:], false)
	_ = encoder.WriteBytes(lido.StSolMint[:], false)
	_ = encoder.WriteBytes(lido.StakePoolAccount[:], false)
	_ = encoder.WriteBytes(lido.StakePoolTokenHolder[:], false)
	_ = encoder.WriteBytes(lido.TokenProgramID[:], false)
	_ = encoder.WriteUint64(lido.StSolTotalShares, bin.LE)
	_ = encoder.WriteByte(lido.SolReserveAuthorityBumpSeed)
	_ = encoder.WriteByte(lido.DepositAuthorityBumpSeed)
	_ = encoder.WriteByte(lido.FeeManagerBumpSeed)
	_ = encoder.WriteByte(lido.StakePoolAuthorityBumpSeed)
	if err := lido.FeeDistribution.MarshalWithEncoder(encoder); err != nil {
		return err
	}
	if err := lido.FeeRecipients.MarshalWithEncoder(encoder); err != nil {
		return err
	}
	return lido.Maintainers.MarshalWithEncoder(encoder)
}

// LidoFromAccountInfo decodes the state record. Trailing zero bytes of the
// fixed allocation are left unread.
func LidoFromAccountInfo(acct *vm.AccountInfo) (*Lido, error) {
	lido := new(Lido)
	decoder := bin.NewBinDecoder(acct.Data)
	if err := lido.UnmarshalWithDecoder(decoder); err != nil {
		return nil, fmt.Errorf("failed to decode solido state: %w", err)
	}
	return lido, nil
}

// Serialize writes the record into the account's fixed allocation.
func (lido *Lido) Serialize(acct *vm.AccountInfo) error {
	writer := new(bytes.Buffer)
	encoder := bin.NewBinEncoder(writer)
	if err := lido.MarshalWithEncoder(encoder); err != nil {
		return err
	}
	if writer.Len() > len(acct.Data) {
		return ErrUnexpectedValidatorAccountSize
	}
	copy(acct.Data, writer.Bytes())
	return nil
}

// RequiredBytes is the account allocation needed for the given list limits.
func RequiredBytes(maxValidators uint32, maxMaintainers uint32) uint64 {
	return LidoConstantSize +
		uint64(maxValidators)*ValidatorCreditEntrySize +
		MaintainersRequiredBytes(maxMaintainers)
}

func (lido *Lido) IsInitialized() bool {
	return lido.AccountType != AccountTypeUninitialized
}

// CheckLidoForDeposit verifies the caller-supplied manager, stake pool and
// mint against the stored state.
func (lido *Lido) CheckLidoForDeposit(manager, stakePool, mint solana.PublicKey) error {
	if lido.Manager != manager {
		return ErrInvalidManager
	}
	if lido.StakePoolAccount != stakePool {
		return ErrInvalidStakePool
	}
	if lido.StSolMint != mint {
		return ErrInvalidTokenMinter
	}
	return nil
}

func (lido *Lido) CheckTokenProgramID(key solana.PublicKey) error {
	if lido.TokenProgramID != key {
		return ErrInvalidTokenProgram
	}
	return nil
}

func (lido *Lido) CheckStakePool(stakePool *vm.AccountInfo) error {
	if lido.StakePoolAccount != stakePool.Key {
		return ErrInvalidStakePool
	}
	return nil
}

func (lido *Lido) CheckMaintainer(maintainer *vm.AccountInfo) error {
	if !lido.Maintainers.Contains(maintainer.Key) {
		return ErrInvalidMaintainer
	}
	return nil
}

// CalcPoolTokensForDeposit applies share-based accounting: tokens minted
// for a deposit are proportional to the depositor's share of the total
// value under management at the moment of deposit. An empty pool values one
// token at one lamport.
func (lido *Lido) CalcPoolTokensForDeposit(amount uint64, totalLamports uint64) (uint64, error) {
	if lido.StSolTotalShares == 0 || totalLamports == 0 {
		return amount, nil
	}
	tokens, err := safemath.CheckedMulDivU64(amount, lido.StSolTotalShares, totalLamports)
	if err != nil {
		return 0, ErrCalculationFailure
	}
	return tokens, nil
}
