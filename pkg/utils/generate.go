package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// ==================== OTP ====================

// GenerateOTP returns a numeric code of the given length drawn from crypto/rand.
// Bytes >= 250 are rejected so every digit is uniformly distributed.
func GenerateOTP(length int) string {
	if length <= 0 {
		length = 6
	}

	otp := make([]byte, 0, length)
	buf := make([]byte, length*2)
	for len(otp) < length {
		rand.Read(buf)
		for _, b := range buf {
			if b >= 250 {
				continue
			}
			otp = append(otp, '0'+b%10)
			if len(otp) == length {
				break
			}
		}
	}

	return string(otp)
}

// ==================== REGISTRATION ID ====================

// GenerateRegistrationID creates a unique registration ID.
// Format: REG-<unix millis>-<8 hex chars>
func GenerateRegistrationID(now time.Time) string {
	suffix := make([]byte, 4)
	rand.Read(suffix)

	return fmt.Sprintf("REG-%d-%s", now.UnixMilli(), hex.EncodeToString(suffix))
}
