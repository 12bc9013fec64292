package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// RandomToken mints a high-entropy hex string used as a bearer capability
// (response tokens, signature tokens, invite and reset tokens).
func RandomToken(byteLen int) (string, error) {
	buf := make([]byte, byteLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("unable to read random bytes: %v", err)
	}
	return hex.EncodeToString(buf), nil
}

// DisplayLocation is the fixed timezone used when rendering timestamps for
// members (signature confirmations, CSV export).
func DisplayLocation() *time.Location {
	name := viper.GetString("general.display_timezone")
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
