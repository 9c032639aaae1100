// Package payment verifies payment gateway callback signatures.
//
// The gateway signs each callback with HMAC-SHA256 over "orderId|paymentId"
// using a shared secret; the hex digest arrives as the signature field.
package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

var (
	// ErrSecretNotConfigured indicates the signing secret is absent from
	// the environment. Verification must fail closed rather than be skipped.
	ErrSecretNotConfigured = errors.New("payment signing secret is not configured")

	// ErrMissingInput indicates one of orderID, paymentID or signature is empty
	ErrMissingInput = errors.New("orderID, paymentID and signature are all required")
)

// Verifier checks callback authenticity against a shared secret
type Verifier struct {
	secret string
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: secret}
}

// Verify reports whether signature is a valid HMAC-SHA256 hex digest of
// "orderID|paymentID" under the configured secret. The comparison is
// constant-time.
func (v *Verifier) Verify(orderID, paymentID, signature string) (bool, error) {
	if v.secret == "" {
		return false, ErrSecretNotConfigured
	}
	if orderID == "" || paymentID == "" || signature == "" {
		return false, ErrMissingInput
	}

	expected := Sign(v.secret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature)), nil
}

// Sign computes the hex HMAC-SHA256 digest of "orderID|paymentID"
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
