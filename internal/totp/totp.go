// Package totp wraps RFC 6238 code generation and verification for the
// secrets this service issues: 30-second period, 6 digits, HMAC-SHA1, the
// parameters every common authenticator app expects.
package totp

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"net/url"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const period = 30

// GenerateSecret returns a new random shared secret of byteLength raw bytes,
// base32-encoded without padding (20 bytes encodes to 32 characters).
func GenerateSecret(byteLength int) (string, error) {
	if byteLength <= 0 {
		return "", fmt.Errorf("secret length must be > 0, got %d", byteLength)
	}
	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf), nil
}

// VerifyCode reports whether code matches the TOTP derived from secret at the
// current time, allowing skew periods of clock drift on either side
// (skew=0 accepts only the current 30-second window). A wrong code is a
// normal outcome, not an error: malformed input simply fails verification.
// The underlying comparison is constant-time.
func VerifyCode(secret, code string, skew uint) bool {
	return VerifyCodeAt(secret, code, skew, time.Now())
}

// VerifyCodeAt is VerifyCode against an explicit wall-clock time.
func VerifyCodeAt(secret, code string, skew uint, t time.Time) bool {
	ok, err := totp.ValidateCustom(code, secret, t, totp.ValidateOpts{
		Period:    period,
		Skew:      skew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}

// KeyURI assembles the otpauth:// provisioning URI for a secret. The account
// name becomes the label and issuer is carried as a query parameter; both are
// passed through to the QR renderer unmodified.
func KeyURI(secret, account, issuer string) string {
	v := url.Values{}
	v.Set("secret", secret)
	if issuer != "" {
		v.Set("issuer", issuer)
	}
	u := url.URL{
		Scheme:   "otpauth",
		Host:     "totp",
		Path:     "/" + account,
		RawQuery: v.Encode(),
	}
	return u.String()
}
