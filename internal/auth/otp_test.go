package auth

import (
	"testing"
	"time"
)

// fakeClock lets tests move time forward without sleeping.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)}
}

// ─── OTP ─────────────────────────────────────────────────────

func TestOTP_IssueAndVerify(t *testing.T) {
	s := NewOTPStore(5*time.Minute, 3)

	code, err := s.Issue("+911234567890")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("Issue() code = %q, want 6 digits", code)
	}

	if err := s.Verify("+911234567890", code); err != nil {
		t.Errorf("Verify() error = %v", err)
	}
	// Code is consumed on success.
	if err := s.Verify("+911234567890", code); err != ErrOTPNotFound {
		t.Errorf("Verify() second use error = %v, want ErrOTPNotFound", err)
	}
}

func TestOTP_UnknownPhone(t *testing.T) {
	s := NewOTPStore(5*time.Minute, 3)
	if err := s.Verify("+910000000000", "123456"); err != ErrOTPNotFound {
		t.Errorf("Verify() error = %v, want ErrOTPNotFound", err)
	}
}

func TestOTP_Expiry(t *testing.T) {
	clock := newClock()
	s := NewOTPStore(5*time.Minute, 3)
	s.now = clock.now

	code, _ := s.Issue("+911234567890")
	clock.advance(5*time.Minute + time.Second)

	if err := s.Verify("+911234567890", code); err != ErrOTPExpired {
		t.Errorf("Verify() error = %v, want ErrOTPExpired", err)
	}
	// Expired entry is consumed.
	if err := s.Verify("+911234567890", code); err != ErrOTPNotFound {
		t.Errorf("Verify() after expiry error = %v, want ErrOTPNotFound", err)
	}
}

func TestOTP_WrongCodeThenRight(t *testing.T) {
	s := NewOTPStore(5*time.Minute, 3)

	code, _ := s.Issue("+911234567890")
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	if err := s.Verify("+911234567890", wrong); err != ErrOTPMismatch {
		t.Fatalf("Verify() error = %v, want ErrOTPMismatch", err)
	}
	if err := s.Verify("+911234567890", code); err != nil {
		t.Errorf("Verify() with correct code error = %v", err)
	}
}

func TestOTP_MaxGuessesConsumesCode(t *testing.T) {
	s := NewOTPStore(5*time.Minute, 3)

	code, _ := s.Issue("+911234567890")
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	if err := s.Verify("+911234567890", wrong); err != ErrOTPMismatch {
		t.Fatalf("guess 1 error = %v, want ErrOTPMismatch", err)
	}
	if err := s.Verify("+911234567890", wrong); err != ErrOTPMismatch {
		t.Fatalf("guess 2 error = %v, want ErrOTPMismatch", err)
	}
	if err := s.Verify("+911234567890", wrong); err != ErrTooManyGuesses {
		t.Fatalf("guess 3 error = %v, want ErrTooManyGuesses", err)
	}
	// Even the right code no longer works.
	if err := s.Verify("+911234567890", code); err != ErrOTPNotFound {
		t.Errorf("Verify() after lockout error = %v, want ErrOTPNotFound", err)
	}
}

func TestOTP_ReissueReplacesCode(t *testing.T) {
	s := NewOTPStore(5*time.Minute, 3)

	first, _ := s.Issue("+911234567890")
	second, _ := s.Issue("+911234567890")

	if first != second {
		if err := s.Verify("+911234567890", first); err != ErrOTPMismatch {
			t.Errorf("Verify() with stale code error = %v, want ErrOTPMismatch", err)
		}
	}
	if err := s.Verify("+911234567890", second); err != nil {
		t.Errorf("Verify() with fresh code error = %v", err)
	}
}

// ─── Rate limiter ────────────────────────────────────────────

func TestRateLimiter_EnforcesWindow(t *testing.T) {
	clock := newClock()
	l := NewRateLimiter(5, time.Minute)
	l.now = clock.now

	for i := 0; i < 5; i++ {
		if !l.Allow("1.2.3.4") {
			t.Fatalf("Allow() #%d = false, want true", i+1)
		}
	}
	if l.Allow("1.2.3.4") {
		t.Error("Allow() #6 = true, want false")
	}

	// A different key has its own bucket.
	if !l.Allow("5.6.7.8") {
		t.Error("Allow() for fresh key = false, want true")
	}

	// Window rollover resets the count.
	clock.advance(time.Minute + time.Second)
	if !l.Allow("1.2.3.4") {
		t.Error("Allow() after window = false, want true")
	}
}
