package gcal

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"strconv"
	"strings"
	"time"
)

// DefaultStateTTL bounds how long an issued state is accepted at the callback.
const DefaultStateTTL = 10 * time.Minute

// StateSigner produces and checks OAuth state values of the form nonce.expiry.signature.
// The signature covers nonce and expiry, so the callback rejects states this server did
// not issue as well as expired ones.
type StateSigner struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// StateOption configures a StateSigner.
type StateOption func(*StateSigner)

// WithStateTTL sets how long issued states stay valid.
func WithStateTTL(ttl time.Duration) StateOption {
	return func(s *StateSigner) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// NewStateSigner creates a signer keyed with secret.
func NewStateSigner(secret string, opts ...StateOption) *StateSigner {
	s := &StateSigner{key: []byte(secret), ttl: DefaultStateTTL, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// New returns a fresh signed state.
func (s *StateSigner) New() (string, error) {
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	payload := base64.RawURLEncoding.EncodeToString(nonce) + "." +
		strconv.FormatInt(s.now().Add(s.ttl).Unix(), 10)

	return payload + "." + s.sign(payload), nil
}

// Verify reports whether state was produced by New with the same key and has not expired.
func (s *StateSigner) Verify(state string) bool {
	i := strings.LastIndexByte(state, '.')
	if i <= 0 {
		return false
	}

	payload, sig := state[:i], state[i+1:]

	nonce, rawExpiry, ok := strings.Cut(payload, ".")
	if !ok || nonce == "" {
		return false
	}

	if !hmac.Equal([]byte(sig), []byte(s.sign(payload))) {
		return false
	}

	expiry, err := strconv.ParseInt(rawExpiry, 10, 64)
	if err != nil {
		return false
	}

	return s.now().Unix() <= expiry
}

func (s *StateSigner) sign(payload string) string {
	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(payload))

	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
