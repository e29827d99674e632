package script

import (
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"
)

// unescape decodes a single escape sequence such as \n, \x41 or \u{1F600}.
func unescape(seq string) string {
	if len(seq) < 2 || seq[0] != '\\' {
		return seq
	}

	switch c := seq[1]; c {
	case 'n':
		return "\n"
	case 't':
		return "\t"
	case 'r':
		return "\r"
	case 'b':
		return "\b"
	case 'f':
		return "\f"
	case 'v':
		return "\v"
	case '0':
		if len(seq) == 2 {
			return "\x00"
		}
		return legacyOctal(seq[1:])
	case '\r', '\n', 0xe2:
		// Line continuation.
		return ""
	case 'x':
		if r, ok := parseHexRune(seq[2:]); ok {
			return string(r)
		}
	case 'u':
		hex := strings.TrimSuffix(strings.TrimPrefix(seq[2:], "{"), "}")
		if r, ok := parseHexRune(hex); ok {
			return string(r)
		}
	default:
		if c >= '1' && c <= '7' {
			return legacyOctal(seq[1:])
		}
	}

	return seq[1:]
}

func parseHexRune(hex string) (rune, bool) {
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || !utf8.ValidRune(rune(v)) {
		return 0, false
	}
	return rune(v), true
}

func legacyOctal(digits string) string {
	v, err := strconv.ParseUint(digits, 8, 32)
	if err != nil {
		return digits
	}
	return string(rune(v))
}

// numberString renders a numeric literal the way the runtime's String()
// would: 0x10 becomes "16", 1e3 becomes "1000", 1.50 becomes "1.5".
func numberString(raw string) string {
	clean := strings.ReplaceAll(raw, "_", "")
	if f, ok := parseNumber(clean); ok {
		return formatNumber(f)
	}
	return raw
}

func parseNumber(s string) (float64, bool) {
	lower := strings.ToLower(s)
	base := 0
	switch {
	case strings.HasPrefix(lower, "0x"):
		base = 16
	case strings.HasPrefix(lower, "0o"):
		base = 8
	case strings.HasPrefix(lower, "0b"):
		base = 2
	case len(s) > 1 && s[0] == '0' && isOctalDigits(s[1:]):
		// Legacy octal literal, e.g. 017.
		n, ok := new(big.Int).SetString(s[1:], 8)
		if !ok {
			return 0, false
		}
		f, _ := new(big.Float).SetInt(n).Float64()
		return f, true
	}

	if base != 0 {
		n, ok := new(big.Int).SetString(s[2:], base)
		if !ok {
			return 0, false
		}
		f, _ := new(big.Float).SetInt(n).Float64()
		return f, true
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !isRangeErr(err) {
		return 0, false
	}
	return f, true
}

func isRangeErr(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}

func isOctalDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '7' {
			return false
		}
	}
	return s != ""
}

// formatNumber implements the runtime's Number-to-String conversion.
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}

	// Shortest round-tripping digits and decimal exponent.
	mantissa, expPart, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
	digits := strings.Replace(mantissa, ".", "", 1)
	exp, _ := strconv.Atoi(expPart)
	k := len(digits)
	n := exp + 1

	var out string
	switch {
	case k <= n && n <= 21:
		out = digits + strings.Repeat("0", n-k)
	case 0 < n && n <= 21:
		out = digits[:n] + "." + digits[n:]
	case -6 < n && n <= 0:
		out = "0." + strings.Repeat("0", -n) + digits
	default:
		e := n - 1
		expSign := "+"
		if e < 0 {
			expSign = "-"
			e = -e
		}
		out = digits[:1]
		if k > 1 {
			out += "." + digits[1:]
		}
		out += "e" + expSign + strconv.Itoa(e)
	}

	return sign + out
}

// bigIntString renders a bigint literal such as 0x10n as its decimal
// digits ("16").
func bigIntString(raw string) string {
	s := strings.ReplaceAll(strings.TrimSuffix(raw, "n"), "_", "")
	base := 10
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "0x"):
		base, s = 16, s[2:]
	case strings.HasPrefix(lower, "0o"):
		base, s = 8, s[2:]
	case strings.HasPrefix(lower, "0b"):
		base, s = 2, s[2:]
	}
	n, ok := new(big.Int).SetString(s, base)
	if !ok {
		return raw
	}
	return n.String()
}
