package voiceprint

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// The persisted voiceprint format, shared by every Store
// implementation:
//
//	plaintext  = strconv 'g' renderings of each value, comma-joined
//	ciphertext = plaintext XOR repeating sha256(secret)
//	stored     = standard base64 of ciphertext
//
// The XOR mask is an explicitly-labeled obfuscation placeholder, not
// authenticated encryption. The round trip is exact: float32 values
// rendered with the shortest 'g' form parse back bit-identically.

// deriveKey derives the XOR mask from the operator secret.
func deriveKey(secret string) []byte {
	digest := sha256.Sum256([]byte(secret))
	return digest[:]
}

// encodeEmbedding serializes and obfuscates an embedding for storage.
func encodeEmbedding(embedding []float32, key []byte) []byte {
	parts := make([]string, len(embedding))
	for i, v := range embedding {
		parts[i] = strconv.FormatFloat(float64(v), 'g', -1, 32)
	}
	raw := []byte(strings.Join(parts, ","))

	cipher := make([]byte, len(raw))
	for i, b := range raw {
		cipher[i] = b ^ key[i%len(key)]
	}

	out := make([]byte, base64.StdEncoding.EncodedLen(len(cipher)))
	base64.StdEncoding.Encode(out, cipher)
	return out
}

// decodeEmbedding reverses encodeEmbedding.
func decodeEmbedding(payload []byte, key []byte) ([]float32, error) {
	cipher := make([]byte, base64.StdEncoding.DecodedLen(len(payload)))
	n, err := base64.StdEncoding.Decode(cipher, payload)
	if err != nil {
		return nil, fmt.Errorf("voiceprint: decode payload: %w", err)
	}
	cipher = cipher[:n]

	raw := make([]byte, len(cipher))
	for i, b := range cipher {
		raw[i] = b ^ key[i%len(key)]
	}

	var embedding []float32
	for _, part := range strings.Split(string(raw), ",") {
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 32)
		if err != nil {
			return nil, fmt.Errorf("voiceprint: parse stored embedding: %w", err)
		}
		embedding = append(embedding, float32(v))
	}
	return embedding, nil
}
