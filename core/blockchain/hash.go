package blockchain

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	sha256 "github.com/minio/sha256-simd"
)

// Hashable is implemented by records with a fixed, order-stable serialization.
type Hashable interface {
	CanonicalBytes() []byte
}

type HexEncoding int

const (
	// PaddedHex renders two characters per digest byte.
	PaddedHex HexEncoding = iota
	// CompactHex renders each byte without zero padding, so 0x0a becomes "a".
	// Digests can be shorter than 64 characters.
	CompactHex
)

func (e HexEncoding) String() string {
	switch e {
	case PaddedHex:
		return "padded"
	case CompactHex:
		return "compact"
	default:
		return fmt.Sprintf("HexEncoding(%d)", int(e))
	}
}

// ParseHexEncoding maps a config value to a HexEncoding.
func ParseHexEncoding(s string) (HexEncoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "padded":
		return PaddedHex, nil
	case "compact":
		return CompactHex, nil
	default:
		return PaddedHex, fmt.Errorf("unknown hex encoding %q", s)
	}
}

// Hasher produces SHA-256 hex digests of Hashable records.
type Hasher struct {
	encoding HexEncoding
}

func NewHasher(encoding HexEncoding) Hasher {
	return Hasher{encoding: encoding}
}

func (h Hasher) Encoding() HexEncoding {
	return h.encoding
}

// MaxDifficulty is the length of a padded SHA-256 hex digest, the longest
// string any Hasher renders.
const MaxDifficulty = sha256.Size * 2

// MaxDigestLen is the longest digest string the hasher can render.
func (h Hasher) MaxDigestLen() int {
	return MaxDifficulty
}

func (h Hasher) Hash(r Hashable) string {
	sum := sha256.Sum256(r.CanonicalBytes())
	return h.render(sum[:])
}

func (h Hasher) render(digest []byte) string {
	if h.encoding != CompactHex {
		return hex.EncodeToString(digest)
	}
	var sb strings.Builder
	sb.Grow(len(digest) * 2)
	for _, b := range digest {
		sb.WriteString(strconv.FormatUint(uint64(b), 16))
	}
	return sb.String()
}

// hexConcat is the input of an interior Merkle node: two digests joined as one string.
type hexConcat string

func (c hexConcat) CanonicalBytes() []byte {
	var buf bytes.Buffer
	writeJSONString(&buf, string(c))
	return buf.Bytes()
}

func writeJSONString(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	// strings always encode
	_ = enc.Encode(s)
	buf.Truncate(buf.Len() - 1)
}

// formatAmount always keeps a fractional part: 100 renders as "100.0".
func formatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
