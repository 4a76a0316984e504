package mail

import (
	"context"
	"net"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listen(t *testing.T) (net.Listener, string, int) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	host, portStr, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return ln, host, port
}

func TestSMTPMailer_Ready(t *testing.T) {
	t.Run("reachable relay", func(t *testing.T) {
		ln, host, port := listen(t)
		defer ln.Close()

		m := NewSMTPMailer(Config{Host: host, Port: port})
		assert.True(t, m.Ready(context.Background()))
	})

	t.Run("unreachable relay", func(t *testing.T) {
		ln, host, port := listen(t)
		ln.Close()

		m := NewSMTPMailer(Config{Host: host, Port: port})
		assert.False(t, m.Ready(context.Background()))
	})

	t.Run("unconfigured relay", func(t *testing.T) {
		m := NewSMTPMailer(Config{})
		assert.False(t, m.Ready(context.Background()))
	})

	t.Run("result is cached between probes", func(t *testing.T) {
		ln, host, port := listen(t)

		m := NewSMTPMailer(Config{Host: host, Port: port})
		assert.True(t, m.Ready(context.Background()))

		// The relay goes down; the cached verdict holds until the TTL lapses.
		ln.Close()
		assert.True(t, m.Ready(context.Background()))

		m.checkedAt = m.checkedAt.Add(-2 * healthCacheTTL)
		assert.False(t, m.Ready(context.Background()))
	})
}

func TestNewSMTPMailer_DefaultFrom(t *testing.T) {
	m := NewSMTPMailer(Config{User: "news@example.com"})
	assert.Equal(t, "My Blog <news@example.com>", m.cfg.From)

	m = NewSMTPMailer(Config{User: "news@example.com", From: "Custom <c@example.com>"})
	assert.Equal(t, "Custom <c@example.com>", m.cfg.From)
}
