// Package auth implements the OTP login flow and request rate limiting.
// Both are backed by process-local in-memory maps: codes are short-lived
// and rate windows are per-instance, which is all this deployment needs.
// SMS delivery of the code is an external collaborator, not handled here.
package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"
)

var (
	ErrOTPNotFound    = errors.New("no code issued for this phone")
	ErrOTPExpired     = errors.New("code expired")
	ErrOTPMismatch    = errors.New("code does not match")
	ErrTooManyGuesses = errors.New("too many failed attempts")
)

const (
	DefaultOTPTTL      = 5 * time.Minute
	DefaultMaxAttempts = 3
)

type otpEntry struct {
	code     string
	expires  time.Time
	attempts int
}

// OTPStore issues and verifies one-time codes. A phone has at most one
// active code; issuing again replaces it.
type OTPStore struct {
	mu          sync.Mutex
	codes       map[string]*otpEntry
	ttl         time.Duration
	maxAttempts int
	now         func() time.Time
}

func NewOTPStore(ttl time.Duration, maxAttempts int) *OTPStore {
	if ttl <= 0 {
		ttl = DefaultOTPTTL
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &OTPStore{
		codes:       make(map[string]*otpEntry),
		ttl:         ttl,
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

// Issue generates a fresh 6-digit code for the phone and returns it for
// delivery.
func (s *OTPStore) Issue(phone string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[phone] = &otpEntry{code: code, expires: s.now().Add(s.ttl)}
	return code, nil
}

// Verify checks a submitted code. The entry is consumed on success, on
// expiry, and after too many failed guesses.
func (s *OTPStore) Verify(phone, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.codes[phone]
	if !ok {
		return ErrOTPNotFound
	}
	if s.now().After(entry.expires) {
		delete(s.codes, phone)
		return ErrOTPExpired
	}
	if entry.code != code {
		entry.attempts++
		if entry.attempts >= s.maxAttempts {
			delete(s.codes, phone)
			return ErrTooManyGuesses
		}
		return ErrOTPMismatch
	}
	delete(s.codes, phone)
	return nil
}
