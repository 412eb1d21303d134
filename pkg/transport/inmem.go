package transport

import (
	"context"
	"io"
	"sync"
)

// InMemoryTransport is a channel-backed transport half. Two halves created
// by Pipe are cross-wired so that one side's Send feeds the other side's
// Receive. Used by tests to drive a server without real pipes.
type InMemoryTransport struct {
	in  chan []byte
	out chan []byte

	done      chan struct{}
	peerDone  chan struct{}
	closeOnce sync.Once
}

var _ Transport = (*InMemoryTransport)(nil)

// Pipe returns two connected transport halves. Conventionally the first is
// handed to the server and the second acts as the client.
func Pipe() (*InMemoryTransport, *InMemoryTransport) {
	aToB := make(chan []byte, 16)
	bToA := make(chan []byte, 16)
	aDone := make(chan struct{})
	bDone := make(chan struct{})

	a := &InMemoryTransport{in: bToA, out: aToB, done: aDone, peerDone: bDone}
	b := &InMemoryTransport{in: aToB, out: bToA, done: bDone, peerDone: aDone}
	return a, b
}

// Receive blocks for the next message from the peer. It returns io.EOF
// once either side has closed.
func (t *InMemoryTransport) Receive(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-t.done:
		return nil, io.EOF
	case data, ok := <-t.in:
		if !ok {
			return nil, io.EOF
		}
		return data, nil
	case <-t.peerDone:
		// Drain anything the peer sent before closing.
		select {
		case data := <-t.in:
			return data, nil
		default:
			return nil, io.EOF
		}
	}
}

// Send delivers one message to the peer. The closed check runs before the
// channel send; otherwise a closed done channel and free buffer space are
// both ready cases and the select would pick between them at random.
func (t *InMemoryTransport) Send(data []byte) error {
	select {
	case <-t.done:
		return ErrClosed
	case <-t.peerDone:
		return ErrClosed
	default:
	}

	msg := make([]byte, len(data))
	copy(msg, data)

	select {
	case <-t.done:
		return ErrClosed
	case <-t.peerDone:
		return ErrClosed
	case t.out <- msg:
		return nil
	}
}

// Close shuts down this half. The peer observes io.EOF on its next
// Receive once any buffered messages are drained.
func (t *InMemoryTransport) Close() error {
	t.closeOnce.Do(func() {
		close(t.done)
	})
	return nil
}
