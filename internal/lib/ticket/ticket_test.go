package ticket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSignVerify(t *testing.T) {
	tk := Sign("6f1c2a7e-1b1d-4a55-9d47-0d8e7e1f2a10", "s3cret", time.Minute)

	subject, ok := Verify(tk, "s3cret")
	assert.True(t, ok)
	assert.Equal(t, "6f1c2a7e-1b1d-4a55-9d47-0d8e7e1f2a10", subject)

	_, ok = Verify(tk, "other")
	assert.False(t, ok)
}

func TestVerifyRejects(t *testing.T) {
	expired := Sign("abc", "k", -time.Minute)
	tests := map[string]string{
		"expired":    expired,
		"garbage":    "nope",
		"no subject": ".123.abc",
		"bad expiry": "abc.tomorrow.ff",
	}
	for name, tk := range tests {
		t.Run(name, func(t *testing.T) {
			_, ok := Verify(tk, "k")
			assert.False(t, ok)
		})
	}
}
