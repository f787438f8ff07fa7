package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base32"
	"encoding/binary"
	"errors"
	"fmt"
	"hash"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const totpSecretBytes = 20

var b32 = base32.StdEncoding.WithPadding(base32.NoPadding)

// TOTPConfig controls code generation per RFC 6238. Zero fields take the
// authenticator-app defaults: SHA1, 6 digits, 30 second period, ±1 step skew.
type TOTPConfig struct {
	Issuer    string
	Digits    int
	Period    int
	Skew      int
	Algorithm string
}

// TOTP generates shared secrets and verifies time-based one-time codes.
type TOTP struct {
	cfg TOTPConfig
}

// NewTOTP returns a TOTP engine with defaults filled in.
func NewTOTP(cfg TOTPConfig) *TOTP {
	if cfg.Digits == 0 {
		cfg.Digits = 6
	}
	if cfg.Period == 0 {
		cfg.Period = 30
	}
	if cfg.Skew == 0 {
		cfg.Skew = 1
	}
	if cfg.Algorithm == "" {
		cfg.Algorithm = "SHA1"
	}
	return &TOTP{cfg: cfg}
}

// GenerateSecret returns a fresh 160-bit shared secret, base32 without padding.
func (t *TOTP) GenerateSecret() (string, error) {
	raw := make([]byte, totpSecretBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return b32.EncodeToString(raw), nil
}

// ProvisionURI builds the otpauth:// enrollment URI for the given account
// label, suitable for QR rendering on the client.
func (t *TOTP) ProvisionURI(secret, account string) string {
	label := url.PathEscape(t.cfg.Issuer + ":" + account)

	v := url.Values{}
	v.Set("secret", secret)
	v.Set("issuer", t.cfg.Issuer)
	v.Set("period", strconv.Itoa(t.cfg.Period))
	v.Set("digits", strconv.Itoa(t.cfg.Digits))
	v.Set("algorithm", strings.ToUpper(t.cfg.Algorithm))

	return "otpauth://totp/" + label + "?" + v.Encode()
}

// WellFormed reports whether code has the expected number of decimal digits.
// A malformed code is a validation problem, not a failed verification.
func (t *TOTP) WellFormed(code string) bool {
	code = strings.TrimSpace(code)
	if len(code) != t.cfg.Digits {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

// VerifyCode checks code against the base32 secret at the given time,
// accepting ±Skew adjacent steps of clock drift. Comparison is constant time.
func (t *TOTP) VerifyCode(secretBase32, code string, now time.Time) bool {
	if !t.WellFormed(code) {
		return false
	}
	secret, err := b32.DecodeString(strings.ToUpper(strings.TrimSpace(secretBase32)))
	if err != nil || len(secret) == 0 {
		return false
	}

	code = strings.TrimSpace(code)
	base := now.Unix() / int64(t.cfg.Period)
	for step := -t.cfg.Skew; step <= t.cfg.Skew; step++ {
		counter := base + int64(step)
		if counter < 0 {
			continue
		}
		want, err := hotpCode(secret, counter, t.cfg.Digits, t.cfg.Algorithm)
		if err != nil {
			return false
		}
		if subtle.ConstantTimeCompare([]byte(want), []byte(code)) == 1 {
			return true
		}
	}
	return false
}

// GenerateCode computes the code for the secret at the given time.
func (t *TOTP) GenerateCode(secretBase32 string, at time.Time) (string, error) {
	secret, err := b32.DecodeString(strings.ToUpper(strings.TrimSpace(secretBase32)))
	if err != nil {
		return "", err
	}
	return hotpCode(secret, at.Unix()/int64(t.cfg.Period), t.cfg.Digits, t.cfg.Algorithm)
}

func hotpCode(secret []byte, counter int64, digits int, algorithm string) (string, error) {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], uint64(counter))

	hf, err := hmacFunc(algorithm)
	if err != nil {
		return "", err
	}
	mac := hmac.New(hf, secret)
	_, _ = mac.Write(msg[:])
	sum := mac.Sum(nil)

	offset := sum[len(sum)-1] & 0x0f
	bin := (int(sum[offset])&0x7f)<<24 |
		(int(sum[offset+1])&0xff)<<16 |
		(int(sum[offset+2])&0xff)<<8 |
		(int(sum[offset+3]) & 0xff)

	mod := 1
	for i := 0; i < digits; i++ {
		mod *= 10
	}

	return fmt.Sprintf("%0*d", digits, bin%mod), nil
}

func hmacFunc(algorithm string) (func() hash.Hash, error) {
	switch strings.ToUpper(algorithm) {
	case "", "SHA1":
		return sha1.New, nil
	case "SHA256":
		return sha256.New, nil
	case "SHA512":
		return sha512.New, nil
	default:
		return nil, errors.New("unsupported totp algorithm")
	}
}
