package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignatureHeader carries the hex HMAC-SHA256 of the request body.
const SignatureHeader = "X-Disku-Signature"

// Sign computes the hex HMAC-SHA256 signature of body under secret.
// Used by the agent; the server recomputes it for verification.
func Sign(secret, body []byte) string {
	h := hmac.New(sha256.New, secret)
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// Verify checks a hex signature against the body using constant-time
// comparison to prevent timing attacks.
func Verify(secret, body []byte, signature string) error {
	if signature == "" {
		return ErrMissingSignature
	}

	got, err := hex.DecodeString(signature)
	if err != nil {
		return ErrInvalidSignature
	}

	want := hmac.New(sha256.New, secret)
	want.Write(body)

	if !hmac.Equal(want.Sum(nil), got) {
		return ErrInvalidSignature
	}
	return nil
}
