package transport

import (
	"bufio"
	"context"
	"io"
	"os"
	"sync"
	"time"

	mcperrors "github.com/ajitpratap0/mcp-server-go/pkg/errors"
)

// StdioTransport frames messages as newline-delimited JSON over a
// reader/writer pair. This is the standard carrier for command-line MCP
// servers, where the client launches the server as a child process and
// speaks to it over pipes.
type StdioTransport struct {
	reader    io.Reader
	rawWriter io.Writer
	writer    *bufio.Writer

	incoming  chan []byte
	readErr   error
	readErrMu sync.Mutex

	writeMu   sync.Mutex
	done      chan struct{}
	closeOnce sync.Once
	scanOnce  sync.Once

	maxMessageSize int
	writeTimeout   time.Duration
}

// writeDeadliner is implemented by *os.File and net.Conn writers.
type writeDeadliner interface {
	SetWriteDeadline(t time.Time) error
}

var _ Transport = (*StdioTransport)(nil)

// NewStdioTransport builds a transport over os.Stdin and os.Stdout with the
// default configuration.
func NewStdioTransport() *StdioTransport {
	return NewStdioTransportWithConfig(os.Stdin, os.Stdout, DefaultConfig())
}

// NewStdioTransportWithConfig builds a transport over an arbitrary
// reader/writer pair. Tests use this with in-memory pipes.
func NewStdioTransportWithConfig(r io.Reader, w io.Writer, cfg Config) *StdioTransport {
	maxSize := cfg.MaxMessageSize
	if maxSize <= 0 {
		maxSize = DefaultConfig().MaxMessageSize
	}
	return &StdioTransport{
		reader:         r,
		rawWriter:      w,
		writer:         bufio.NewWriter(w),
		incoming:       make(chan []byte),
		done:           make(chan struct{}),
		maxMessageSize: maxSize,
		writeTimeout:   cfg.WriteTimeout,
	}
}

// Receive returns the next newline-delimited message. It starts the scan
// loop on first use, so a transport that is never read from never spawns a
// goroutine.
func (t *StdioTransport) Receive(ctx context.Context) ([]byte, error) {
	t.scanOnce.Do(func() { go t.scanLoop() })

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-t.done:
		return nil, io.EOF
	case data, ok := <-t.incoming:
		if !ok {
			if err := t.takeReadErr(); err != nil {
				return nil, err
			}
			return nil, io.EOF
		}
		return data, nil
	}
}

// scanLoop reads lines until EOF, a read error, or Close. Each line is one
// framed message; the bytes are copied because the scanner reuses its
// buffer.
func (t *StdioTransport) scanLoop() {
	defer close(t.incoming)

	scanner := bufio.NewScanner(t.reader)
	scanner.Buffer(make([]byte, 0, 64*1024), t.maxMessageSize)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		data := make([]byte, len(line))
		copy(data, line)

		select {
		case t.incoming <- data:
		case <-t.done:
			return
		}
	}

	if err := scanner.Err(); err != nil {
		t.setReadErr(mcperrors.TransportError("read", err))
	}
}

// Send writes one message followed by a newline and flushes. The mutex
// keeps concurrent sends from interleaving bytes on the wire. When the
// underlying writer supports deadlines, each send is bounded by the
// configured write timeout so a stalled peer cannot wedge the writer.
func (t *StdioTransport) Send(data []byte) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	select {
	case <-t.done:
		return ErrClosed
	default:
	}

	if t.writeTimeout > 0 {
		if d, ok := t.rawWriter.(writeDeadliner); ok {
			if err := d.SetWriteDeadline(time.Now().Add(t.writeTimeout)); err != nil {
				return mcperrors.TransportError("set write deadline", err)
			}
		}
	}

	if _, err := t.writer.Write(data); err != nil {
		return mcperrors.TransportError("write", err)
	}
	if err := t.writer.WriteByte('\n'); err != nil {
		return mcperrors.TransportError("write", err)
	}
	if err := t.writer.Flush(); err != nil {
		return mcperrors.TransportError("flush", err)
	}
	return nil
}

// Close flushes pending output and releases the transport. Closing also
// closes the underlying reader when it supports it, which unblocks the
// scan loop.
func (t *StdioTransport) Close() error {
	var flushErr error
	t.closeOnce.Do(func() {
		close(t.done)

		t.writeMu.Lock()
		flushErr = t.writer.Flush()
		t.writeMu.Unlock()

		if closer, ok := t.reader.(io.Closer); ok {
			_ = closer.Close()
		}
	})
	if flushErr != nil {
		return mcperrors.TransportError("flush", flushErr)
	}
	return nil
}

func (t *StdioTransport) setReadErr(err error) {
	t.readErrMu.Lock()
	defer t.readErrMu.Unlock()
	if t.readErr == nil {
		t.readErr = err
	}
}

func (t *StdioTransport) takeReadErr() error {
	t.readErrMu.Lock()
	defer t.readErrMu.Unlock()
	return t.readErr
}
