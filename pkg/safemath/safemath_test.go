package safemath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckedAddU64(t *testing.T) {
	sum, err := CheckedAddU64(1, 2)
	assert.NoError(t, err)
	assert.Equal(t, uint64(3), sum)

	_, err = CheckedAddU64(math.MaxUint64, 1)
	assert.Equal(t, ErrOverflow, err)
}

func TestCheckedSubU64(t *testing.T) {
	diff, err := CheckedSubU64(10, 4)
	assert.NoError(t, err)
	assert.Equal(t, uint64(6), diff)

	_, err = CheckedSubU64(4, 10)
	assert.Equal(t, ErrOverflow, err)
}

func TestCheckedMulU64(t *testing.T) {
	product, err := CheckedMulU64(1<<32, 1<<31)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1<<63), product)

	_, err = CheckedMulU64(1<<32, 1<<32)
	assert.Equal(t, ErrOverflow, err)
}

func TestCheckedMulDivU64(t *testing.T) {
	// exercises the 128-bit intermediate: a*b does not fit in 64 bits
	quo, err := CheckedMulDivU64(math.MaxUint64, 10, 20)
	assert.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64/2), quo)

	quo, err = CheckedMulDivU64(7, 3, 2)
	assert.NoError(t, err)
	assert.Equal(t, uint64(10), quo) // floor division

	_, err = CheckedMulDivU64(1, 1, 0)
	assert.Equal(t, ErrOverflow, err)

	_, err = CheckedMulDivU64(math.MaxUint64, 3, 2)
	assert.Equal(t, ErrOverflow, err)
}

func TestSaturating(t *testing.T) {
	assert.Equal(t, uint64(math.MaxUint64), SaturatingAddU64(math.MaxUint64, 5))
	assert.Equal(t, uint64(0), SaturatingSubU64(3, 5))
	assert.Equal(t, uint64(math.MaxUint64), SaturatingMulU64(1<<32, 1<<32))
	assert.Equal(t, uint64(12), SaturatingMulU64(3, 4))
}
