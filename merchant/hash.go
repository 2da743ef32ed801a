package merchant

import (
	"crypto/hmac"
	"crypto/sha256"
)

// hashPayload computes HMAC-SHA256 over a payload using a secret key.
// Issued payloads are looked up by this digest, never by their text.
func hashPayload(payload string, key []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write([]byte(payload))
	return h.Sum(nil)
}
