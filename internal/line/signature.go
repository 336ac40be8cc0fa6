// Package line implements the thin platform transport: callback signature
// checks, tolerant event parsing, and the reply API client.
package line

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"

	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
)

// SignatureHeader carries the base64 HMAC-SHA256 of the raw callback body.
const SignatureHeader = "X-Line-Signature"

// ErrSignatureInvalid is returned when a callback signature does not match.
var ErrSignatureInvalid = errors.New("invalid signature")

// Sign returns the base64 HMAC-SHA256 of body keyed by secret. The SDK only
// verifies, so signing for tests and the operator CLI lives here.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks signature against body in constant time.
func VerifySignature(secret string, body []byte, signature string) error {
	if signature == "" {
		return ErrSignatureInvalid
	}
	if !webhook.ValidateSignature(secret, signature, body) {
		return ErrSignatureInvalid
	}
	return nil
}
