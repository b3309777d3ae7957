package usecase

import (
	"crypto/rand"
	"io"
)

// generateActivationCode creates a secure random 8-character code from an
// alphabet that avoids ambiguous characters like O/0 and I/1.
func generateActivationCode() (string, error) {
	const chars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	const codeLength = 8

	buffer := make([]byte, codeLength)
	if _, err := io.ReadFull(rand.Reader, buffer); err != nil {
		return "", err
	}
	for i := 0; i < codeLength; i++ {
		buffer[i] = chars[int(buffer[i])%len(chars)]
	}
	return string(buffer), nil
}
