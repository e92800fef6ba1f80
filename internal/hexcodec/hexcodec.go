// Package hexcodec is the single choke point for translating between Go
// numeric/byte values and the minimal-length 0x-prefixed hex strings the
// Ethereum JSON-RPC wire format requires.
package hexcodec

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/relaymesh/eth-relay/internal/domain"
)

// Prepend0x adds a "0x" prefix if absent. Idempotent.
func Prepend0x(s string) string {
	if has0xPrefix(s) {
		return s
	}
	return "0x" + s
}

// Prune0x strips a leading "0x" prefix if present. Idempotent.
func Prune0x(s string) string {
	if has0xPrefix(s) {
		return s[2:]
	}
	return s
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// ToHash32 truncates an already 0x-prefixed hex string of at least 64
// nibbles to the canonical 66-character (0x + 64 hex) hash width.
func ToHash32(s string) string {
	if len(s) <= domain.HashHexLength {
		return s
	}
	return s[:domain.HashHexLength]
}

// ToNullIfEmpty maps the literal "0x" to an absent value, otherwise
// returns the string unchanged. This is the single choke point for
// canonicalizing the ledger's undefined/0x ambiguity into Go's nil.
func ToNullIfEmpty(s string) *string {
	if s == domain.EmptyHex {
		return nil
	}
	return &s
}

// ToHex renders an unsigned integer or big number as minimal-length
// 0x-prefixed lower-case hex. Zero renders as "0x0", never "0x" or "0x00".
func ToHex(n interface{}) string {
	switch v := n.(type) {
	case nil:
		return domain.ZeroHex
	case int:
		return hexutil.EncodeUint64(uint64(v))
	case int32:
		return hexutil.EncodeUint64(uint64(v))
	case int64:
		return hexutil.EncodeUint64(uint64(v))
	case uint:
		return hexutil.EncodeUint64(uint64(v))
	case uint32:
		return hexutil.EncodeUint64(uint64(v))
	case uint64:
		return hexutil.EncodeUint64(v)
	case *big.Int:
		if v == nil {
			return domain.ZeroHex
		}
		return hexutil.EncodeBig(v)
	case big.Int:
		return hexutil.EncodeBig(&v)
	default:
		return domain.ZeroHex
	}
}

// ToHexOrNull is ToHex with null-passthrough: a nil input returns nil
// rather than "0x0".
func ToHexOrNull(n interface{}) interface{} {
	if n == nil {
		return nil
	}
	return ToHex(n)
}

// HexToDec parses a hex string, with or without a 0x prefix, into an
// int64; an empty string (or a bare "0x") parses as 0. The digits are
// always read as base 16, so callers that may receive a pure decimal
// string should use DecOrHexToInt instead.
func HexToDec(s string) (int64, error) {
	trimmed := Prune0x(s)
	if trimmed == "" {
		return 0, nil
	}
	return strconv.ParseInt(trimmed, 16, 64)
}

// DecOrHexToInt parses a block-number-shaped string that may be plain
// decimal or 0x-prefixed hex, stripping any 0x prefix before parsing.
func DecOrHexToInt(s string) (int64, error) {
	if has0xPrefix(s) {
		return HexToDec(s)
	}
	return strconv.ParseInt(s, 10, 64)
}

// NormalizeHexString strips redundant leading zeros from an already
// 0x-prefixed hex string, collapsing an all-zero value to "0x0".
func NormalizeHexString(s string) string {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	trimmed = strings.TrimLeft(trimmed, "0")
	if trimmed == "" {
		return domain.ZeroHex
	}
	return "0x" + trimmed
}
