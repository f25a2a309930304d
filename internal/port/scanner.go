package port

import (
	"fmt"
	"net"
)

// maxPort is the highest valid TCP port number (2^16 - 1).
const maxPort = 65535

// scanSpan is how many ports above the preferred one PickHostPort probes
// before giving up. 100 is far more than any realistic number of
// concurrent dev databases on one machine.
const scanSpan = 100

// Scanner checks whether specific TCP ports are available on the host.
//
// It uses the operating system's network stack (net.Listen) to determine
// if a port is free. This is the most reliable method because it asks the
// OS directly, rather than parsing /proc/net/* or relying on external
// commands like `lsof` which may require elevated permissions.
//
// The struct is currently stateless, but is defined as a struct (rather
// than bare functions) so that future options (e.g., bind address) can be
// added without breaking the API, and so it can be injected as a
// dependency in tests.
type Scanner struct{}

// NewScanner creates a new Scanner instance.
func NewScanner() *Scanner {
	return &Scanner{}
}

// IsAvailable checks whether a single TCP port is free on the host.
//
// It attempts net.Listen on all interfaces (":port" rather than
// "127.0.0.1:port") because Docker publishes ports on 0.0.0.0, so the
// same address space must be checked to avoid false positives.
//
// Returns true if the port is free, false if it is already in use.
func (s *Scanner) IsAvailable(port int) bool {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return false
	}
	// Close immediately — only availability was being tested.
	defer func() { _ = listener.Close() }()
	return true
}

// PickHostPort returns the preferred port if it is free, or the first
// free port scanning upward from it. The scan covers scanSpan ports and
// never exceeds the valid port range.
//
// The sequential upward scan is deterministic: with 5432 taken, the dev
// database lands on 5433, which users can predict without running any
// commands.
func (s *Scanner) PickHostPort(preferred int) (int, error) {
	if preferred < 1 || preferred > maxPort {
		return 0, fmt.Errorf("port %d out of range (1-%d)", preferred, maxPort)
	}

	end := preferred + scanSpan
	if end > maxPort {
		end = maxPort
	}

	for port := preferred; port <= end; port++ {
		if s.IsAvailable(port) {
			return port, nil
		}
	}
	return 0, fmt.Errorf("no free TCP port found in range %d-%d", preferred, end)
}
