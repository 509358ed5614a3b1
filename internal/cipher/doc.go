// Package cipher provides the text transcoding engine used by transcodectl,
// the HTTP API and the gRPC service.
//
// # Overview
//
// The engine is a fixed registry of codecs, each a pure function from text to
// a Result:
//   - base64_encode/decode - Standard Base64 with padding
//   - url_encode/decode - URI component percent-encoding
//   - hex_encode/decode - Lowercase hexadecimal, separators ignored on decode
//   - base32_encode/decode - RFC 4648 Base32
//
// A Result is either Ok(value) or a failure carrying a user-facing message
// and an ErrorKind. Codecs never panic out and never return Go errors.
//
// # Quick Start
//
//	codec, _ := cipher.Lookup("hex_encode")
//	res := codec.Apply("AB", false)
//	// res.Value() == "4142"
//
// # Line Mode
//
// With line mode on, each line of the input is converted on its own:
//
//	res := cipher.Apply(cipher.DecodeHex, "4142\n\n4344", true)
//	// res.Value() == "AB\n\nCD"
//
// Blank lines are copied through. The first line that fails decides the
// result and no partial output is returned.
//
// # Converting With Every Codec
//
//	report := cipher.Convert("SGk=", false)
//	for _, o := range report.Decoded {
//	    fmt.Println(o.Name, o.Result.Text())
//	}
//
// # Chains
//
//	chain := cipher.ParseChain("base64_encode,hex_encode")
//	encoded, _ := chain.Apply("hi", false)
//	back, _ := chain.Reverse()
//	decoded, _ := back.Apply(encoded.Value(), false)
//
// # Character Model
//
// Encoders work on single-byte characters. Base64 rejects text with code
// points above U+00FF; Hex and Base32 keep the low byte of each UTF-16 code
// unit. Decoders map each decoded byte to the character with the same code
// point (ISO-8859-1). URL encoding is the exception and uses UTF-8.
//
// # Thread Safety
//
// The registry is immutable and every codec is stateless, so all functions
// are safe for concurrent use.
package cipher
