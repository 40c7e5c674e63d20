package wallet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSaltIsRandom(t *testing.T) {
	a, err := GenerateSalt()
	require.NoError(t, err)
	b, err := GenerateSalt()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Len(t, a.Hex(), 2+2*SaltLength)
}

func TestParseSalt(t *testing.T) {
	valid := "0x" + strings.Repeat("ab", 32)
	s, err := ParseSalt(valid)
	require.NoError(t, err)
	assert.Equal(t, valid, s.Hex())

	upper, err := ParseSalt("0X" + strings.Repeat("AB", 32))
	require.NoError(t, err)
	assert.Equal(t, s, upper)

	cases := map[string]string{
		"empty":      "",
		"prefix":     "0x",
		"no prefix":  strings.Repeat("ab", 32),
		"short":      "0x" + strings.Repeat("ab", 31),
		"long":       "0x" + strings.Repeat("ab", 33),
		"odd":        "0x" + strings.Repeat("a", 63),
		"not hex":    "0x" + strings.Repeat("zz", 32),
		"20 byte id": "0x" + strings.Repeat("11", 20),
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSalt(in)
			assert.ErrorIs(t, err, ErrInvalidSalt)
		})
	}
}

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress(" 0x00000000000000000000000000000000000000Aa ")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x00000000000000000000000000000000000000aa"), addr)

	for _, in := range []string{"", "0xabc", "0x" + strings.Repeat("g", 40), "0x" + strings.Repeat("1", 42)} {
		_, err := ParseAddress(in)
		assert.ErrorIs(t, err, ErrInvalidAddress, in)
	}
}

func TestSaltProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("hex round-trips through ParseSalt", prop.ForAll(
		func(raw []byte) bool {
			var s Salt
			copy(s[:], raw)
			parsed, err := ParseSalt(s.Hex())
			return err == nil && bytes.Equal(parsed[:], raw)
		},
		gen.SliceOfN(SaltLength, gen.UInt8()),
	))

	properties.Property("anything but 32 bytes is rejected", prop.ForAll(
		func(raw []byte) bool {
			_, err := ParseSalt(hexutil.Encode(raw))
			return len(raw) == SaltLength || err != nil
		},
		gen.SliceOf(gen.UInt8()),
	))

	properties.TestingRun(t)
}
