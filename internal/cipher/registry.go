package cipher

// The registry is built once and never mutated, so it needs no locking.
var (
	encoders = []Codec{
		{
			ID:          "base64_encode",
			Name:        "Base64 Encoded",
			Description: "Encodes text to Base64",
			Type:        OperationTypeEncode,
			Inverse:     "base64_decode",
			Transform:   guard(KindUnsupportedCharacterRange, msgBase64Encode, EncodeBase64),
		},
		{
			ID:          "url_encode",
			Name:        "URL Encoded",
			Description: "Encodes text for URLs",
			Type:        OperationTypeEncode,
			Inverse:     "url_decode",
			Transform:   guard(KindInvalidEncoding, msgURLEncode, EncodeURL),
		},
		{
			ID:          "hex_encode",
			Name:        "Hex Encoded",
			Description: "Encodes text to hexadecimal",
			Type:        OperationTypeEncode,
			Inverse:     "hex_decode",
			Transform:   guard(KindUnsupportedCharacterRange, msgHexEncode, EncodeHex),
		},
		{
			ID:          "base32_encode",
			Name:        "Base32 Encoded",
			Description: "Encodes text to Base32",
			Type:        OperationTypeEncode,
			Inverse:     "base32_decode",
			Transform:   guard(KindUnsupportedCharacterRange, msgBase32Encode, EncodeBase32),
		},
	}

	decoders = []Codec{
		{
			ID:          "base64_decode",
			Name:        "Base64 Decoded",
			Description: "Decodes Base64 encoded text",
			Type:        OperationTypeDecode,
			Inverse:     "base64_encode",
			Transform:   guard(KindInvalidEncoding, msgBase64Decode, DecodeBase64),
		},
		{
			ID:          "url_decode",
			Name:        "URL Decoded",
			Description: "Decodes URL encoded text",
			Type:        OperationTypeDecode,
			Inverse:     "url_encode",
			Transform:   guard(KindInvalidEncoding, msgURLDecode, DecodeURL),
		},
		{
			ID:          "hex_decode",
			Name:        "Hex Decoded",
			Description: "Decodes hexadecimal to text",
			Type:        OperationTypeDecode,
			Inverse:     "hex_encode",
			Transform:   guard(KindInvalidCharacterSet, msgHexDecode, DecodeHex),
		},
		{
			ID:          "base32_decode",
			Name:        "Base32 Decoded",
			Description: "Decodes Base32 to text",
			Type:        OperationTypeDecode,
			Inverse:     "base32_encode",
			Transform:   guard(KindInvalidCharacterSet, msgBase32Decode, DecodeBase32),
		},
	}

	byID = indexCodecs(encoders, decoders)
)

func indexCodecs(lists ...[]Codec) map[string]Codec {
	index := make(map[string]Codec)
	for _, list := range lists {
		for _, c := range list {
			if _, exists := index[c.ID]; exists {
				panic("cipher: duplicate codec id " + c.ID)
			}
			index[c.ID] = c
		}
	}
	return index
}

// Encoders returns the encoders in display order.
func Encoders() []Codec {
	return append([]Codec(nil), encoders...)
}

// Decoders returns the decoders in display order.
func Decoders() []Codec {
	return append([]Codec(nil), decoders...)
}

// All returns the encoders followed by the decoders.
func All() []Codec {
	all := make([]Codec, 0, len(encoders)+len(decoders))
	all = append(all, encoders...)
	return append(all, decoders...)
}

// Lookup retrieves a codec by ID
func Lookup(id string) (Codec, bool) {
	c, ok := byID[id]
	return c, ok
}

// ListByType returns the codecs of one type in display order.
func ListByType(opType OperationType) []Codec {
	switch opType {
	case OperationTypeEncode:
		return Encoders()
	case OperationTypeDecode:
		return Decoders()
	default:
		return nil
	}
}
