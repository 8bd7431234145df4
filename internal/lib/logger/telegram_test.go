package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	messages []string
}

func (s *recordingSender) SendMessage(msg string) {
	s.messages = append(s.messages, msg)
}

func TestTelegramHandlerForwardsOnlyAboveLevel(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	sender := &recordingSender{}

	log := SetupTelegramHandler(base, sender, slog.LevelError)
	log = log.With(slog.String("module", "activeyear"))

	log.Info("resolved")
	log.Error("refresh failed", slog.String("error", "timeout"))

	require.Len(t, sender.messages, 1)
	assert.True(t, strings.HasPrefix(sender.messages[0], "ERROR: refresh failed"))
	assert.Contains(t, sender.messages[0], "module: activeyear")
	assert.Contains(t, sender.messages[0], "error: timeout")

	assert.Contains(t, buf.String(), "resolved")
	assert.Contains(t, buf.String(), "refresh failed")
}

func TestSetupTelegramHandlerWithoutSender(t *testing.T) {
	base := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	assert.Same(t, base, SetupTelegramHandler(base, nil, slog.LevelError))
}
