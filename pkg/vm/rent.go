package vm

import (
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

const SysvarRentAddrStr = "SysvarRent111111111111111111111111111111111"

var SysvarRentAddr = solana.MustPublicKeyFromBase58(SysvarRentAddrStr)

const SysvarRentStructLen = 17

// AccountStorageOverhead is charged per account on top of its data length
// when computing the rent-exempt minimum.
const AccountStorageOverhead = 128

type Rent struct {
	LamportsPerByteYear uint64
	ExemptionThreshold  float64
	BurnPercent         byte
}

func (r *Rent) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	r.LamportsPerByteYear, err = decoder.ReadUint64(bin.LE)
	if err != nil {
		return fmt.Errorf("failed to read LamportsPerByteYear when decoding Rent: %w", err)
	}

	r.ExemptionThreshold, err = decoder.ReadFloat64(bin.LE)
	if err != nil {
		return fmt.Errorf("failed to read ExemptionThreshold when decoding Rent: %w", err)
	}

	r.BurnPercent, err = decoder.ReadByte()
	if err != nil {
		return fmt.Errorf("failed to read BurnPercent when decoding Rent: %w", err)
	}

	return nil
}

func (r *Rent) MarshalWithEncoder(encoder *bin.Encoder) error {
	_ = encoder.WriteUint64(r.LamportsPerByteYear, bin.LE)
	_ = encoder.WriteFloat64(r.ExemptionThreshold, bin.LE)
	return encoder.WriteByte(r.BurnPercent)
}

// RentFromAccountInfo decodes the rent sysvar from the account the caller
// supplied in the rent sysvar position.
func RentFromAccountInfo(acct *AccountInfo) (Rent, error) {
	if acct.Key != SysvarRentAddr {
		return Rent{}, fmt.Errorf("account %s is not the rent sysvar", acct.Key)
	}
	decoder := bin.NewBinDecoder(acct.Data)
	var rent Rent
	err := rent.UnmarshalWithDecoder(decoder)
	return rent, err
}

// MinimumBalance returns the smallest lamport balance at which an account
// with the given data length is exempt from rent collection.
func (r *Rent) MinimumBalance(dataLen uint64) uint64 {
	bytes := dataLen + AccountStorageOverhead
	return uint64(float64(bytes*r.LamportsPerByteYear) * r.ExemptionThreshold)
}

// IsExempt reports whether balance covers the rent-exempt minimum for an
// allocation of dataLen bytes.
func (r *Rent) IsExempt(balance uint64, dataLen uint64) bool {
	return balance >= r.MinimumBalance(dataLen)
}

// DefaultRent matches the host's genesis rent parameters.
func DefaultRent() Rent {
	return Rent{
		LamportsPerByteYear: 3480,
		ExemptionThreshold:  2.0,
		BurnPercent:         50,
	}
}
