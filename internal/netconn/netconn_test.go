package netconn

import (
	"net"
	"strings"
	"testing"
	"time"
)

// pipeConns returns two in-memory, unbuffered connections wired together
// with net.Pipe, for exercising ReadLine's byte-parsing logic without the
// overhead of a real socket. Listen/Accept/Dial themselves are covered
// separately by TestListenAcceptDial_RoundTrip.
func pipeConns() (client, server *Conn) {
	c1, c2 := net.Pipe()
	return &Conn{c: c1}, &Conn{c: c2}
}

func TestListenAcceptDial_RoundTrip(t *testing.T) {
	l, err := Listen(0)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer l.Close()

	acceptedCh := make(chan *Conn, 1)
	go func() {
		c, err := l.Accept()
		if err != nil {
			t.Errorf("Accept: %v", err)
			return
		}
		acceptedCh <- c
	}()

	client, err := Dial(l.Addr().String())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close()

	server := <-acceptedCh
	defer server.Close()

	if err := client.Write([]byte("hello\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	line, ok, err := server.ReadLine()
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if !ok {
		t.Fatal("ReadLine: got Disconnected, want a line")
	}
	if line != "hello" {
		t.Fatalf("ReadLine = %q, want %q", line, "hello")
	}
}

func TestReadLine_MultipleLines(t *testing.T) {
	client, server := pipeConns()
	defer client.Close()
	defer server.Close()

	go func() {
		if err := client.Write([]byte("hello\nworld\nxyzzy\n")); err != nil {
			t.Errorf("Write: %v", err)
		}
	}()

	want := []string{"hello", "world", "xyzzy"}
	for _, w := range want {
		line, ok, err := server.ReadLine()
		if err != nil || !ok {
			t.Fatalf("ReadLine = %q, %v, %v", line, ok, err)
		}
		if line != w {
			t.Fatalf("ReadLine = %q, want %q", line, w)
		}
	}
}

func TestReadLine_EmptyLine(t *testing.T) {
	client, server := pipeConns()
	defer client.Close()
	defer server.Close()

	go func() {
		if err := client.Write([]byte("\nhello\n")); err != nil {
			t.Errorf("Write: %v", err)
		}
	}()

	line, ok, err := server.ReadLine()
	if err != nil || !ok || line != "" {
		t.Fatalf("ReadLine = %q, %v, %v, want empty line", line, ok, err)
	}

	line, ok, err = server.ReadLine()
	if err != nil || !ok || line != "hello" {
		t.Fatalf("ReadLine = %q, %v, %v, want %q", line, ok, err, "hello")
	}
}

func TestReadLine_PartialFinalLineOnClose(t *testing.T) {
	client, server := pipeConns()
	defer server.Close()

	go func() {
		if err := client.Write([]byte("hello")); err != nil {
			t.Errorf("Write: %v", err)
			return
		}
		client.Close()
	}()

	line, ok, err := server.ReadLine()
	if err != nil || !ok || line != "hello" {
		t.Fatalf("ReadLine = %q, %v, %v, want final partial line %q", line, ok, err, "hello")
	}

	// A subsequent read on the now-closed connection reports Disconnected.
	_, ok, _ = server.ReadLine()
	if ok {
		t.Fatal("ReadLine after close: got a line, want Disconnected")
	}
}

func TestReadLine_DisconnectWithNoBytes(t *testing.T) {
	client, server := pipeConns()
	defer server.Close()

	go client.Close()

	line, ok, err := server.ReadLine()
	if err != nil {
		t.Fatalf("ReadLine: unexpected error %v", err)
	}
	if ok {
		t.Fatalf("ReadLine = %q, ok=true, want Disconnected", line)
	}
}

func TestReadLine_GrowsBeyondInitialBuffer(t *testing.T) {
	client, server := pipeConns()
	defer client.Close()
	defer server.Close()

	long := strings.Repeat("x", initialLineBufSize*3+17)
	go func() {
		if err := client.Write([]byte(long + "\n")); err != nil {
			t.Errorf("Write: %v", err)
		}
	}()

	line, ok, err := server.ReadLine()
	if err != nil || !ok {
		t.Fatalf("ReadLine = %v, %v", ok, err)
	}
	if line != long {
		t.Fatalf("ReadLine length = %d, want %d", len(line), len(long))
	}
}

func TestWrite_RoundTrip(t *testing.T) {
	client, server := pipeConns()
	defer client.Close()
	defer server.Close()

	go func() {
		if err := server.Write([]byte("hello OK\n")); err != nil {
			t.Errorf("Write: %v", err)
		}
	}()

	client.c.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 64)
	n, err := client.c.Read(buf)
	if err != nil {
		t.Fatalf("client Read: %v", err)
	}
	if string(buf[:n]) != "hello OK\n" {
		t.Fatalf("client read = %q, want %q", buf[:n], "hello OK\n")
	}
}
