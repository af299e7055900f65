// agent/internal/printer/printer.go
package printer

import (
	"fmt"
	"io"
	"net"
	"strconv"
	"time"
)

// Sender transmits one rendered label. Implementations do not retry;
// a failed attempt goes back through the request state machine so the
// whole system can see it.
type Sender interface {
	Send(data []byte) error
}

// TCPSender writes raw ZPL to a network printer (Zebra raw port 9100).
// Each Send opens and closes its own connection.
type TCPSender struct {
	Host    string
	Port    int
	Timeout time.Duration
}

var _ Sender = (*TCPSender)(nil)

func (s *TCPSender) Send(data []byte) error {
	addr := net.JoinHostPort(s.Host, strconv.Itoa(s.Port))

	conn, err := net.DialTimeout("tcp", addr, s.Timeout)
	if err != nil {
		return fmt.Errorf("printer connection to %s failed: %w", addr, err)
	}
	defer conn.Close()

	if err := conn.SetWriteDeadline(time.Now().Add(s.Timeout)); err != nil {
		return fmt.Errorf("printer deadline failed: %w", err)
	}
	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("printer write to %s failed: %w", addr, err)
	}

	return nil
}

// ConsoleSender dumps ZPL to a writer instead of a printer. This is the
// dry-run mode used when no printer address is configured.
type ConsoleSender struct {
	Out io.Writer
}

var _ Sender = (*ConsoleSender)(nil)

func (s *ConsoleSender) Send(data []byte) error {
	fmt.Fprintln(s.Out, "--- ZPL OUTPUT (no printer configured) ---")
	fmt.Fprintln(s.Out, string(data))
	fmt.Fprintln(s.Out, "--- END ZPL ---")
	return nil
}
