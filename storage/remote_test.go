package storage

import (
	"context"
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regginator/omniwordlist/config"
	"github.com/regginator/omniwordlist/errors"
)

func listen(t *testing.T) (net.Listener, <-chan string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	received := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			close(received)
			return
		}
		defer conn.Close()
		data, _ := io.ReadAll(conn)
		received <- string(data)
	}()
	return ln, received
}

func TestRemoteSinkTCP(t *testing.T) {
	ln, received := listen(t)

	sink, err := DialRemote(context.Background(), "tcp://"+ln.Addr().String(), RemoteOptions{Format: config.FormatJSONL})
	require.NoError(t, err)
	require.NoError(t, sink.Write("aa"))
	require.NoError(t, sink.Write("ab"))
	require.NoError(t, sink.Close())

	select {
	case got := <-received:
		assert.Equal(t, "{\"token\":\"aa\"}\n{\"token\":\"ab\"}\n", got)
	case <-time.After(5 * time.Second):
		t.Fatal("consumer received nothing")
	}
	assert.Equal(t, uint64(2), sink.Stats().Lines)
}

func TestRemoteSinkRateLimit(t *testing.T) {
	ln, received := listen(t)

	sink, err := DialRemote(context.Background(), "tcp://"+ln.Addr().String(), RemoteOptions{RateLimit: 20})
	require.NoError(t, err)

	start := time.Now()
	for range 30 {
		require.NoError(t, sink.Write("x"))
	}
	// a burst of 20 then 10 more at 20/s
	assert.GreaterOrEqual(t, time.Since(start), 400*time.Millisecond)
	require.NoError(t, sink.Close())
	<-received
}

func TestRemoteSinkCancelled(t *testing.T) {
	ln, _ := listen(t)

	ctx, cancel := context.WithCancel(context.Background())
	sink, err := DialRemote(ctx, "tcp://"+ln.Addr().String(), RemoteOptions{RateLimit: 1})
	require.NoError(t, err)
	defer sink.Close()

	require.NoError(t, sink.Write("first"))
	cancel()
	assert.Error(t, sink.Write("second"))
}

func TestDialRemoteErrors(t *testing.T) {
	_, err := DialRemote(context.Background(), "udp://127.0.0.1:9", RemoteOptions{})
	assert.True(t, errors.Is(err, errors.ErrStorage))

	_, err = DialRemote(context.Background(), "tcp://", RemoteOptions{})
	assert.True(t, errors.Is(err, errors.ErrStorage))

	// nothing listens on a closed listener's port
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()
	_, err = DialRemote(context.Background(), "tcp://"+addr, RemoteOptions{})
	assert.True(t, errors.Is(err, errors.ErrStorage))
}

func TestDialRemoteProxyFile(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte("\n# none\n"), 0644))
	_, err := DialRemote(context.Background(), "tcp://127.0.0.1:9", RemoteOptions{ProxyFile: empty})
	assert.True(t, errors.Is(err, errors.ErrConfig))

	// a proxy nobody listens on fails every attempt
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	dead := ln.Addr().String()
	ln.Close()
	list := filepath.Join(dir, "proxies.txt")
	require.NoError(t, os.WriteFile(list, []byte("socks5://"+dead+"\n"), 0644))
	_, err = DialRemote(context.Background(), "tcp://127.0.0.1:9", RemoteOptions{ProxyFile: list})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrStorage))
}
