package printer

import (
	"bytes"
	"io"
	"net"
	"strings"
	"testing"
	"time"
)

func TestTCPSender_WritesAllBytes(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	received := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		data, _ := io.ReadAll(conn)
		received <- data
	}()

	addr := ln.Addr().(*net.TCPAddr)
	sender := &TCPSender{Host: "127.0.0.1", Port: addr.Port, Timeout: 2 * time.Second}

	payload := []byte("^XA^FDtest^FS^XZ")
	if err := sender.Send(payload); err != nil {
		t.Fatalf("send: %v", err)
	}

	select {
	case data := <-received:
		if !bytes.Equal(data, payload) {
			t.Fatalf("printer received %q, want %q", data, payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("printer never received the payload")
	}
}

func TestTCPSender_ConnectionRefused(t *testing.T) {
	// Grab a free port, then close it so the dial is refused.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().(*net.TCPAddr)
	ln.Close()

	sender := &TCPSender{Host: "127.0.0.1", Port: addr.Port, Timeout: 1 * time.Second}
	err = sender.Send([]byte("^XA^XZ"))
	if err == nil {
		t.Fatal("expected a transport error")
	}
	if !strings.Contains(err.Error(), "printer connection") {
		t.Fatalf("error should name the cause: %v", err)
	}
}

func TestConsoleSender(t *testing.T) {
	var buf bytes.Buffer
	sender := &ConsoleSender{Out: &buf}

	if err := sender.Send([]byte("^XA^FDdry run^FS^XZ")); err != nil {
		t.Fatalf("console send: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "^FDdry run^FS") {
		t.Fatalf("console output missing ZPL: %q", out)
	}
	if !strings.Contains(out, "no printer configured") {
		t.Fatalf("console output missing banner: %q", out)
	}
}
