package utils

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"
)

var (
	ErrInvalidOTP = errors.New("invalid OTP")
	ErrOTPExpired = errors.New("OTP expired")
)

// GenerateOTP returns a uniform random 6-digit code in [100000, 999999].
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// CheckOTP validates a presented code against the stored one. The stored
// code is considered absent when empty; expireAt is unix milliseconds.
// A code is only live strictly before its expiry instant, matching the
// conditional-update filters that clear it.
func CheckOTP(stored, presented string, expireAt int64, now time.Time) error {
	if stored == "" || stored != presented {
		return ErrInvalidOTP
	}
	if expireAt <= now.UnixMilli() {
		return ErrOTPExpired
	}
	return nil
}
