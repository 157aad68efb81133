package utils

import (
	"testing"
	"time"
)

func TestGenerateOTP_Format(t *testing.T) {
	t.Parallel()

	for i := 0; i < 100; i++ {
		otp, err := GenerateOTP()
		if err != nil {
			t.Fatalf("GenerateOTP error: %v", err)
		}
		if len(otp) != 6 {
			t.Fatalf("expected 6 digits, got %q", otp)
		}
		if otp[0] == '0' {
			t.Fatalf("expected value in [100000, 999999], got %q", otp)
		}
		for _, c := range otp {
			if c < '0' || c > '9' {
				t.Fatalf("non-digit character in OTP %q", otp)
			}
		}
	}
}

func TestCheckOTP(t *testing.T) {
	t.Parallel()

	now := time.Now()
	future := now.Add(time.Hour).UnixMilli()
	past := now.Add(-time.Hour).UnixMilli()

	tests := []struct {
		name      string
		stored    string
		presented string
		expireAt  int64
		want      error
	}{
		{"valid", "123456", "123456", future, nil},
		{"empty stored", "", "123456", future, ErrInvalidOTP},
		{"mismatch", "123456", "654321", future, ErrInvalidOTP},
		{"expired even on match", "123456", "123456", past, ErrOTPExpired},
		{"expiry at exact instant is expired", "123456", "123456", now.UnixMilli(), ErrOTPExpired},
		{"zero expiry treated as expired", "123456", "123456", 0, ErrOTPExpired},
		{"mismatch wins over expiry", "123456", "654321", past, ErrInvalidOTP},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckOTP(tt.stored, tt.presented, tt.expireAt, now); got != tt.want {
				t.Fatalf("CheckOTP() = %v, want %v", got, tt.want)
			}
		})
	}
}
