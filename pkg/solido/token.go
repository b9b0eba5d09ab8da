package solido

import (
	"bytes"
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
	"github.com/solido-labs/solido-go/pkg/vm"
)

var TokenProgramAddr = solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")

const (
	TokenMintSize    = 82
	TokenAccountSize = 165
)

const (
	TokenAccountStateUninitialized = iota
	TokenAccountStateInitialized
	TokenAccountStateFrozen
)

// token program instruction tags
const (
	TokenInstrTypeMintTo = 7
)

// TokenAccount is the 165-byte SPL token account state. Optional fields use
// the 4-byte-tagged COption encoding.
type TokenAccount struct {
	Mint            solana.PublicKey
	Owner           solana.PublicKey
	Amount          uint64
	Delegate        *solana.PublicKey
	State           byte
	IsNative        *uint64
	DelegatedAmount uint64
	CloseAuthority  *solana.PublicKey
}

func readCOptionPubkey(data []byte) (*solana.PublicKey, []byte, error) {
	if len(data) < 36 {
		return nil, nil, ErrInvalidAccountInfo
	}
	tag := binary.LittleEndian.Uint32(data)
	if tag == 0 {
		return nil, data[36:], nil
	}
	pk := solana.PublicKeyFromBytes(data[4:36])
	return &pk, data[36:], nil
}

func writeCOptionPubkey(buf *bytes.Buffer, pk *solana.PublicKey) {
	var tag [4]byte
	if pk == nil {
		buf.Write(tag[:])
		buf.Write(make([]byte, 32))
		return
	}
	binary.LittleEndian.PutUint32(tag[:], 1)
	buf.Write(tag[:])
	buf.Write(pk[:])
}

// UnpackTokenAccount parses an SPL token account and requires it to be
// initialized.
func UnpackTokenAccount(acct *vm.AccountInfo) (*TokenAccount, error) {
	data := acct.Data
	if len(data) != TokenAccountSize {
		return nil, ErrInvalidAccountInfo
	}

	token := new(TokenAccount)
	token.Mint = solana.PublicKeyFromBytes(data[0:32])
	token.Owner = solana.PublicKeyFromBytes(data[32:64])
	token.Amount = binary.LittleEndian.Uint64(data[64:72])

	var err error
	rest := data[72:]
	token.Delegate, rest, err = readCOptionPubkey(rest)
	if err != nil {
		return nil, err
	}
	token.State = rest[0]
	rest = rest[1:]

	if len(rest) < 12 {
		return nil, ErrInvalidAccountInfo
	}
	if binary.LittleEndian.Uint32(rest) != 0 {
		native := binary.LittleEndian.Uint64(rest[4:12])
		token.IsNative = &native
	}
	rest = rest[12:]

	token.DelegatedAmount = binary.LittleEndian.Uint64(rest[0:8])
	token.CloseAuthority, _, err = readCOptionPubkey(rest[8:])
	if err != nil {
		return nil, err
	}

	if token.State == TokenAccountStateUninitialized {
		return nil, ErrInvalidAccountInfo
	}
	return token, nil
}

// Pack serializes the token account back into its fixed layout.
func (token *TokenAccount) Pack(acct *vm.AccountInfo) error {
	if len(acct.Data) != TokenAccountSize {
		return ErrInvalidAccountInfo
	}
	buf := new(bytes.Buffer)
	buf.Write(token.Mint[:])
	buf.Write(token.Owner[:])
	var amount [8]byte
	binary.LittleEndian.PutUint64(amount[:], token.Amount)
	buf.Write(amount[:])
	writeCOptionPubkey(buf, token.Delegate)
	buf.WriteByte(token.State)
	var native [12]byte
	if token.IsNative != nil {
		binary.LittleEndian.PutUint32(native[0:4], 1)
		binary.LittleEndian.PutUint64(native[4:12], *token.IsNative)
	}
	buf.Write(native[:])
	binary.LittleEndian.PutUint64(amount[:], token.DelegatedAmount)
	buf.Write(amount[:])
	writeCOptionPubkey(buf, token.CloseAuthority)
	copy(acct.Data, buf.Bytes())
	return nil
}

// TokenMint is the 82-byte SPL token mint state.
type TokenMint struct {
	MintAuthority   *solana.PublicKey
	Supply          uint64
	Decimals        byte
	IsInitialized   bool
	FreezeAuthority *solana.PublicKey
}

func UnpackTokenMint(acct *vm.AccountInfo) (*TokenMint, error) {
	data := acct.Data
	if len(data) != TokenMintSize {
		return nil, ErrInvalidTokenMinter
	}

	mint := new(TokenMint)
	var err error
	rest := data
	mint.MintAuthority, rest, err = readCOptionPubkey(rest)
	if err != nil {
		return nil, err
	}
	mint.Supply = binary.LittleEndian.Uint64(rest[0:8])
	mint.Decimals = rest[8]
	mint.IsInitialized = rest[9] != 0
	mint.FreezeAuthority, _, err = readCOptionPubkey(rest[10:])
	if err != nil {
		return nil, err
	}

	if !mint.IsInitialized {
		return nil, ErrInvalidTokenMinter
	}
	return mint, nil
}

func (mint *TokenMint) Pack(acct *vm.AccountInfo) error {
	if len(acct.Data) != TokenMintSize {
		return ErrInvalidTokenMinter
	}
	buf := new(bytes.Buffer)
	writeCOptionPubkey(buf, mint.MintAuthority)
	var supply [8]byte
	binary.LittleEndian.PutUint64(supply[:], mint.Supply)
	buf.Write(supply[:])
	buf.WriteByte(mint.Decimals)
	if mint.IsInitialized {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
	writeCOptionPubkey(buf, mint.FreezeAuthority)
	copy(acct.Data, buf.Bytes())
	return nil
}

// NewTokenMintToInstruction mints amount tokens of mint to dest, authorized
// by the mint authority.
func NewTokenMintToInstruction(mint, dest, authority solana.PublicKey, amount uint64) vm.Instruction {
	data := make([]byte, 9)
	data[0] = TokenInstrTypeMintTo
	binary.LittleEndian.PutUint64(data[1:], amount)
	return vm.Instruction{
		ProgramID: TokenProgramAddr,
		Accounts: []vm.AccountMeta{
			vm.Meta(mint, false),
			vm.Meta(dest, false),
			vm.MetaReadonly(authority, true),
		},
		Data: data,
	}
}
