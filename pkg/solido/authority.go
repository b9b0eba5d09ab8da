package solido

import (
	"crypto/sha256"
	"errors"

	"filippo.io/edwards25519"
	"github.com/gagliardetto/solana-go"
)

const (
	MaxSeeds   = 16
	MaxSeedLen = 32
	PdaMarker  = "ProgramDerivedAddress"
)

// ErrOnCurveInvalidSeeds is returned when a seed tuple hashes onto the
// ed25519 curve; a derived address must be off-curve.
var ErrOnCurveInvalidSeeds = errors.New("generated address must be off-curve")

// Fixed role seeds. One derived authority exists per (role, solido account)
// pair; the role seed is the only namespacing between them.
var (
	ReserveAuthoritySeed    = []byte("reserve_authority")
	DepositAuthoritySeed    = []byte("deposit_authority")
	FeeManagerAuthoritySeed = []byte("fee_manager_authority")
	StakePoolAuthoritySeed  = []byte("stake_pool_authority")
)

// DerivedAuthority is a program-controlled address with no private key. It
// is proven by re-derivation: hashing its seed tuple must land off the
// ed25519 curve at the stored bump, and only the program that owns the seed
// tuple can use it to sign a nested call.
type DerivedAuthority struct {
	Address solana.PublicKey
	Bump    byte
}

func isOnCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}

// CreateProgramAddress hashes the seed tuple and requires the result to be
// off-curve, so the returned address provably has no private counterpart.
func CreateProgramAddress(seeds [][]byte, programID solana.PublicKey) (solana.PublicKey, error) {
	if len(seeds) > MaxSeeds {
		return solana.PublicKey{}, ErrCalculationFailure
	}

	hasher := sha256.New()
	for _, seed := range seeds {
		if len(seed) > MaxSeedLen {
			return solana.PublicKey{}, ErrCalculationFailure
		}
		hasher.Write(seed)
	}
	hasher.Write(programID[:])
	hasher.Write([]byte(PdaMarker))
	hash := hasher.Sum(nil)

	if isOnCurve(hash) {
		return solana.PublicKey{}, ErrOnCurveInvalidSeeds
	}

	return solana.PublicKeyFromBytes(hash), nil
}

// FindProgramAddress searches bumps from 255 downward for the first value
// whose derivation lands off-curve. The bump is persisted by the caller so
// later calls can re-derive without searching.
func FindProgramAddress(seeds [][]byte, programID solana.PublicKey) (solana.PublicKey, byte, error) {
	search := make([][]byte, len(seeds)+1)
	copy(search, seeds)

	for bump := 255; bump >= 0; bump-- {
		search[len(seeds)] = []byte{byte(bump)}
		addr, err := CreateProgramAddress(search, programID)
		if err == nil {
			return addr, byte(bump), nil
		}
	}
	return solana.PublicKey{}, 0, ErrCalculationFailure
}

// FindAuthority derives the authority for a role seed on the given solido
// account.
func FindAuthority(solidoAccount solana.PublicKey, roleSeed []byte, programID solana.PublicKey) (DerivedAuthority, error) {
	addr, bump, err := FindProgramAddress([][]byte{solidoAccount[:], roleSeed}, programID)
	if err != nil {
		return DerivedAuthority{}, err
	}
	return DerivedAuthority{Address: addr, Bump: bump}, nil
}

// AuthorityAddress re-derives a role authority from a stored bump. The
// result matches FindAuthority iff bump is the stored valid bump for the
// role.
func AuthorityAddress(solidoAccount solana.PublicKey, roleSeed []byte, bump byte, programID solana.PublicKey) (solana.PublicKey, error) {
	return CreateProgramAddress([][]byte{solidoAccount[:], roleSeed, {bump}}, programID)
}

// AuthoritySignerSeeds is the seed tuple handed to InvokeSigned when a
// nested call must be signed by the role authority.
func AuthoritySignerSeeds(solidoAccount solana.PublicKey, roleSeed []byte, bump byte) [][]byte {
	return [][]byte{solidoAccount[:], roleSeed, {bump}}
}

// FindValidatorStakeAddress derives the address of the stake record this
// program creates for a validator. It is namespaced by the validator's vote
// account alone.
func FindValidatorStakeAddress(validatorVote solana.PublicKey, programID solana.PublicKey) (solana.PublicKey, byte, error) {
	return FindProgramAddress([][]byte{validatorVote[:]}, programID)
}

// ValidatorStakeSignerSeeds is the seed tuple for the derived stake record
// address itself, used when the program funds its creation.
func ValidatorStakeSignerSeeds(validatorVote solana.PublicKey, bump byte) [][]byte {
	return [][]byte{validatorVote[:], {bump}}
}
