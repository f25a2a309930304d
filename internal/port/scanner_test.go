package port

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// occupyPort binds an ephemeral TCP port and returns its number.
// The listener is closed automatically when the test ends.
func occupyPort(t *testing.T) int {
	t.Helper()

	listener, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = listener.Close() })

	return listener.Addr().(*net.TCPAddr).Port
}

// TestIsAvailable verifies detection of both free and occupied ports.
func TestIsAvailable(t *testing.T) {
	s := NewScanner()

	occupied := occupyPort(t)
	assert.False(t, s.IsAvailable(occupied), "port %d is bound and must report unavailable", occupied)

	// Find a free port by binding and releasing one.
	probe, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	free := probe.Addr().(*net.TCPAddr).Port
	require.NoError(t, probe.Close())

	assert.True(t, s.IsAvailable(free), "released port %d should be available", free)
}

// TestPickHostPortPreferred verifies the preferred port is returned when free.
func TestPickHostPortPreferred(t *testing.T) {
	s := NewScanner()

	probe, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	free := probe.Addr().(*net.TCPAddr).Port
	require.NoError(t, probe.Close())

	got, err := s.PickHostPort(free)
	require.NoError(t, err)
	assert.Equal(t, free, got)
}

// TestPickHostPortScansUpward verifies the fallback scan when the
// preferred port is taken.
func TestPickHostPortScansUpward(t *testing.T) {
	s := NewScanner()

	occupied := occupyPort(t)

	got, err := s.PickHostPort(occupied)
	require.NoError(t, err)
	assert.Greater(t, got, occupied, "picked port should be above the occupied one")
	assert.LessOrEqual(t, got, occupied+scanSpan)
}

// TestPickHostPortOutOfRange verifies input validation.
func TestPickHostPortOutOfRange(t *testing.T) {
	s := NewScanner()

	_, err := s.PickHostPort(0)
	assert.Error(t, err)

	_, err = s.PickHostPort(70000)
	assert.Error(t, err)
}
