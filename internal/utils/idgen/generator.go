package idgen

import (
	"crypto/rand"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const charset = "0123456789abcdefghijklmnopqrstuvwxyz"

// CallIDPrefix marks collaboration resources owned by pairing sessions.
const CallIDPrefix = "session_"

const callIDSuffixLength = 8

// RandomString returns length characters drawn from [0-9a-z] using crypto/rand.
func RandomString(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid id length %d", length)
	}
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	encoded := make([]byte, length)
	for i, b := range bytes {
		encoded[i] = charset[int(b)%len(charset)]
	}
	return string(encoded), nil
}

// GenerateSecureID returns "<prefix>_<random>".
func GenerateSecureID(prefix string, length int) (string, error) {
	suffix, err := RandomString(length)
	if err != nil {
		return "", err
	}
	return prefix + "_" + suffix, nil
}

// GenerateCallID returns the shared resource key for a new session:
// "session_<unix millis>_<random>". It names both the video call and the chat channel.
func GenerateCallID(now time.Time) (string, error) {
	suffix, err := RandomString(callIDSuffixLength)
	if err != nil {
		return "", err
	}
	return CallIDPrefix + strconv.FormatInt(now.UnixMilli(), 10) + "_" + suffix, nil
}

// IsCallID reports whether id has the shape produced by GenerateCallID.
func IsCallID(id string) bool {
	rest, ok := strings.CutPrefix(id, CallIDPrefix)
	if !ok {
		return false
	}
	millis, suffix, ok := strings.Cut(rest, "_")
	if !ok || suffix == "" {
		return false
	}
	_, err := strconv.ParseInt(millis, 10, 64)
	return err == nil
}
