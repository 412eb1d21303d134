package transport

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipeExchange(t *testing.T) {
	a, b := Pipe()
	defer a.Close()
	defer b.Close()

	ctx := context.Background()

	require.NoError(t, a.Send([]byte("from-a")))
	got, err := b.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, "from-a", string(got))

	require.NoError(t, b.Send([]byte("from-b")))
	got, err = a.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, "from-b", string(got))
}

func TestPipeSendAfterPeerCloseAlwaysFails(t *testing.T) {
	// The outbound buffer has free space, so a racy select could deliver
	// instead of failing. Repeat to catch nondeterminism.
	for i := 0; i < 50; i++ {
		a, b := Pipe()
		require.NoError(t, b.Close())
		assert.ErrorIs(t, a.Send([]byte("late")), ErrClosed)
		require.NoError(t, a.Close())
	}
}

func TestPipeCloseSignalsPeer(t *testing.T) {
	a, b := Pipe()

	require.NoError(t, a.Close())

	_, err := b.Receive(context.Background())
	assert.ErrorIs(t, err, io.EOF)

	assert.ErrorIs(t, b.Send([]byte("late")), ErrClosed)
}

func TestPipeDrainsBufferedMessagesAfterClose(t *testing.T) {
	a, b := Pipe()

	require.NoError(t, a.Send([]byte("one")))
	require.NoError(t, a.Close())

	got, err := b.Receive(context.Background())
	if err == nil {
		assert.Equal(t, "one", string(got))
	} else {
		// A racing close may drop the buffered message; only EOF is
		// acceptable then.
		assert.ErrorIs(t, err, io.EOF)
	}
}

func TestPipeReceiveHonorsContext(t *testing.T) {
	a, b := Pipe()
	defer a.Close()
	defer b.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := b.Receive(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPipeSendCopiesData(t *testing.T) {
	a, b := Pipe()
	defer a.Close()
	defer b.Close()

	payload := []byte("original")
	require.NoError(t, a.Send(payload))
	payload[0] = 'X'

	got, err := b.Receive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "original", string(got))
}
