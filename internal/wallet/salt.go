package wallet

import (
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

const SaltLength = 32

// Salt parameterizes the factory's deterministic address derivation.
type Salt [SaltLength]byte

// GenerateSalt returns a fresh salt from crypto/rand.
func GenerateSalt() (Salt, error) {
	var s Salt
	if _, err := rand.Read(s[:]); err != nil {
		return Salt{}, fmt.Errorf("wallet: generate salt: %w", err)
	}
	return s, nil
}

// ParseSalt decodes a 0x-prefixed hex string. The decoded value must be
// exactly 32 bytes; shorter or longer input is rejected, never padded.
func ParseSalt(text string) (Salt, error) {
	raw, err := hexutil.Decode(strings.TrimSpace(text))
	if err != nil {
		return Salt{}, fmt.Errorf("%w: %v", ErrInvalidSalt, err)
	}
	if len(raw) != SaltLength {
		return Salt{}, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidSalt, SaltLength, len(raw))
	}
	var s Salt
	copy(s[:], raw)
	return s, nil
}

func (s Salt) Hex() string { return hexutil.Encode(s[:]) }

func (s Salt) String() string { return s.Hex() }

// ParseAddress accepts a 20-byte hex account identifier with or without 0x.
func ParseAddress(text string) (common.Address, error) {
	raw := strings.TrimSpace(text)
	if !common.IsHexAddress(raw) {
		return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, raw)
	}
	return common.HexToAddress(raw), nil
}
