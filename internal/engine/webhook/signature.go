package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

func Sign(secret string, payload []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

// Verify checks the Webhook-Signature header against each candidate secret
// and returns the index of the one that matched. The webhook endpoint is
// shared between the live and sandbox processors, so the matching secret
// tells us which mode the delivery belongs to.
//
// Must be called on the raw body before any parsing.
func Verify(signature string, body []byte, secrets ...string) (int, error) {
	if signature == "" {
		return -1, ErrUnsignedRequest
	}
	for i, secret := range secrets {
		if secret == "" {
			continue
		}
		expected := Sign(secret, body)
		if hmac.Equal([]byte(expected), []byte(signature)) {
			return i, nil
		}
	}
	return -1, ErrInvalidSignature
}
