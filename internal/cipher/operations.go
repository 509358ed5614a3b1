package cipher

import (
	"encoding/base32"
	"encoding/base64"
	"encoding/hex"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Failure messages shown to users. They are part of the observable contract.
const (
	msgBase64Encode = "Invalid input for Base64 encoding"
	msgBase64Decode = "Invalid Base64 input"
	msgURLEncode    = "Invalid input for URL encoding"
	msgURLDecode    = "Invalid URL encoded input"
	msgHexEncode    = "Invalid input for Hex encoding"
	msgHexDecode    = "Invalid Hex input"
	msgHexOdd       = "Invalid Hex input (must have even number of digits)"
	msgBase32Encode = "Invalid input for Base32 encoding"
	msgBase32Decode = "Invalid Base32 input"
	msgBase32Char   = "Invalid Base32 character: "
)

const base32Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"

// Characters and bytes are related through ISO-8859-1: a character may be
// encoded only if its code point fits in one byte, and decoded bytes become
// the characters U+0000..U+00FF.
var latin1 = charmap.ISO8859_1

func latin1Bytes(s string) ([]byte, error) {
	return latin1.NewEncoder().Bytes([]byte(s))
}

func latin1String(b []byte) string {
	s, err := latin1.NewDecoder().Bytes(b)
	if err != nil {
		// every byte has an ISO-8859-1 mapping
		panic(err)
	}
	return string(s)
}

// codeUnitBytes returns the low byte of every UTF-16 code unit of s.
func codeUnitBytes(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := make([]byte, len(units))
	for i, u := range units {
		out[i] = byte(u)
	}
	return out
}

// Base64

// EncodeBase64 encodes Latin-1 text as standard padded Base64.
func EncodeBase64(text string) Result {
	raw, err := latin1Bytes(text)
	if err != nil {
		return Fail(KindUnsupportedCharacterRange, msgBase64Encode)
	}
	return Ok(base64.StdEncoding.EncodeToString(raw))
}

// DecodeBase64 decodes standard Base64. ASCII whitespace is ignored and
// padding is optional.
func DecodeBase64(text string) Result {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case '\t', '\n', '\f', '\r', ' ':
			return -1
		}
		return r
	}, text)
	if len(clean)%4 == 0 {
		clean = strings.TrimSuffix(clean, "=")
		clean = strings.TrimSuffix(clean, "=")
	}
	raw, err := base64.RawStdEncoding.DecodeString(clean)
	if err != nil {
		return Fail(KindInvalidEncoding, msgBase64Decode)
	}
	return Ok(latin1String(raw))
}

// URL

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}

// EncodeURL percent-encodes every UTF-8 byte outside the URI component
// unreserved set.
func EncodeURL(text string) Result {
	if !utf8.ValidString(text) {
		return Fail(KindInvalidEncoding, msgURLEncode)
	}
	const upperhex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0x0f])
	}
	return Ok(b.String())
}

// DecodeURL reverses EncodeURL. '+' is left as is.
func DecodeURL(text string) Result {
	decoded, err := url.PathUnescape(text)
	if err != nil {
		return Fail(KindInvalidCharacterSet, msgURLDecode)
	}
	if !utf8.ValidString(decoded) {
		return Fail(KindInvalidEncoding, msgURLDecode)
	}
	return Ok(decoded)
}

// Hex

// EncodeHex writes two lowercase hex digits per UTF-16 code unit. Code units
// above 0xFF keep only their low byte.
func EncodeHex(text string) Result {
	return Ok(hex.EncodeToString(codeUnitBytes(text)))
}

func isHexDigit(r rune) bool {
	return ('0' <= r && r <= '9') || ('a' <= r && r <= 'f') || ('A' <= r && r <= 'F')
}

// DecodeHex drops every non-hex character and decodes the remaining digit pairs.
func DecodeHex(text string) Result {
	digits := strings.Map(func(r rune) rune {
		if isHexDigit(r) {
			return r
		}
		return -1
	}, text)
	if len(digits)%2 != 0 {
		return Fail(KindInvalidCharacterSet, msgHexOdd)
	}
	raw, err := hex.DecodeString(digits)
	if err != nil {
		return Fail(KindInvalidCharacterSet, msgHexDecode)
	}
	return Ok(latin1String(raw))
}

// Base32

// EncodeBase32 encodes the low byte of each UTF-16 code unit with the
// RFC 4648 alphabet, padded to a multiple of 8 characters.
func EncodeBase32(text string) Result {
	return Ok(base32.StdEncoding.EncodeToString(codeUnitBytes(text)))
}

// DecodeBase32 decodes RFC 4648 Base32 leniently: padding and whitespace are
// ignored anywhere, lowercase is accepted, and trailing bits that do not make
// up a whole byte are dropped.
func DecodeBase32(text string) Result {
	clean := strings.ToUpper(strings.Map(func(r rune) rune {
		if r == '=' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text))

	for _, r := range clean {
		if !strings.ContainsRune(base32Alphabet, r) {
			return Fail(KindInvalidCharacterSet, msgBase32Char+string(r))
		}
	}

	var (
		buffer uint32
		bits   uint
	)
	out := make([]byte, 0, len(clean)*5/8)
	for i := 0; i < len(clean); i++ {
		buffer = buffer<<5 | uint32(strings.IndexByte(base32Alphabet, clean[i]))
		bits += 5
		if bits >= 8 {
			bits -= 8
			out = append(out, byte(buffer>>bits))
			buffer &= 1<<bits - 1
		}
	}
	return Ok(latin1String(out))
}

// guard converts a panic inside fn into the codec's generic failure.
func guard(kind ErrorKind, message string, fn TransformFunc) TransformFunc {
	return func(input string) (res Result) {
		defer func() {
			if recover() != nil {
				res = Fail(kind, message)
			}
		}()
		return fn(input)
	}
}
