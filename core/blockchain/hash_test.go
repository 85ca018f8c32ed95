package blockchain

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasherRendering(t *testing.T) {
	digest := []byte{0x0a, 0xff, 0x00, 0x10}

	assert.Equal(t, "0aff0010", NewHasher(PaddedHex).render(digest))
	assert.Equal(t, "aff010", NewHasher(CompactHex).render(digest))
}

func TestHasherMatchesSHA256OfCanonicalBytes(t *testing.T) {
	tx := Transaction{Sender: "Alice", Receiver: "Bob", Amount: 10}
	sum := sha256.Sum256([]byte(`{"sender":"Alice","receiver":"Bob","amount":10.0}`))

	h := NewHasher(PaddedHex)
	assert.Equal(t, hex.EncodeToString(sum[:]), h.Hash(tx))
	assert.Len(t, h.Hash(tx), h.MaxDigestLen())
}

func TestHasherIsDeterministic(t *testing.T) {
	header := BlockHeader{Timestamp: 1700000000, Nonce: 7, Difficulty: 2, PrevHash: GenesisPrevHash, MerkleRoot: "abc"}
	for _, enc := range []HexEncoding{PaddedHex, CompactHex} {
		h := NewHasher(enc)
		assert.Equal(t, h.Hash(header), h.Hash(header), enc.String())
	}
}

func TestCompactDigestNeverLongerThanPadded(t *testing.T) {
	for nonce := uint32(0); nonce < 64; nonce++ {
		header := BlockHeader{Nonce: nonce, Difficulty: 1, PrevHash: GenesisPrevHash}
		compact := NewHasher(CompactHex).Hash(header)
		padded := NewHasher(PaddedHex).Hash(header)
		assert.LessOrEqual(t, len(compact), len(padded))
	}
}

func TestParseHexEncoding(t *testing.T) {
	tests := []struct {
		in      string
		want    HexEncoding
		wantErr bool
	}{
		{in: "", want: PaddedHex},
		{in: "padded", want: PaddedHex},
		{in: "Compact", want: CompactHex},
		{in: "base64", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHexEncoding(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHeaderCanonicalBytes(t *testing.T) {
	header := BlockHeader{
		Timestamp:  1700000000,
		Nonce:      42,
		Difficulty: 3,
		PrevHash:   GenesisPrevHash,
		MerkleRoot: "ff",
	}
	want := `{"timestamp":1700000000,"nonce":42,"difficulty":3,"prev_hash":"0@","merkle":"ff"}`
	assert.Equal(t, want, string(header.CanonicalBytes()))
}

func TestHexConcatIsQuoted(t *testing.T) {
	assert.Equal(t, `"abcd"`, string(hexConcat("abcd").CanonicalBytes()))
}

func TestCanonicalStringEscaping(t *testing.T) {
	tx := Transaction{Sender: "a\"b\\c\td", Receiver: "<x>& ", Amount: 1}
	want := `{"sender":"a\"b\\c\td","receiver":"<x>& ","amount":1.0}`
	assert.Equal(t, want, string(tx.CanonicalBytes()))

	// line and paragraph separators are escaped
	assert.Equal(t, `"\u2028\u2029"`, string(hexConcat("\u2028\u2029").CanonicalBytes()))
}

func TestMaxDigestLenIsMaxDifficulty(t *testing.T) {
	for _, enc := range []HexEncoding{PaddedHex, CompactHex} {
		h := NewHasher(enc)
		assert.Equal(t, MaxDifficulty, h.MaxDigestLen())
		assert.NoError(t, ValidateDifficulty(MaxDifficulty, h))
		assert.Error(t, ValidateDifficulty(MaxDifficulty+1, h))
	}
}
