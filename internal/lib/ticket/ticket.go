// Package ticket issues short-lived HMAC-signed tickets naming a session.
// They stand in for the session token where it would end up in a URL, such
// as the websocket upgrade.
package ticket

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Sign returns "{subject}.{expiresUnix}.{sig}".
func Sign(subject, secret string, ttl time.Duration) string {
	expires := time.Now().Add(ttl).Unix()
	return fmt.Sprintf("%s.%d.%s", subject, expires, computeHMAC(subject, expires, secret))
}

// Verify returns the subject of a valid, unexpired ticket.
func Verify(ticket, secret string) (string, bool) {
	parts := strings.Split(ticket, ".")
	if len(parts) != 3 || parts[0] == "" {
		return "", false
	}
	exp, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return "", false
	}
	if time.Now().Unix() > exp {
		return "", false
	}
	expected := computeHMAC(parts[0], exp, secret)
	if !hmac.Equal([]byte(parts[2]), []byte(expected)) {
		return "", false
	}
	return parts[0], true
}

func computeHMAC(subject string, expires int64, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(fmt.Sprintf("%s:%d", subject, expires)))
	return hex.EncodeToString(mac.Sum(nil))
}
