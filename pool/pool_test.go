package pool

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regginator/omniwordlist/errors"
)

func TestNew(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proxies.txt")
	content := "socks5://127.0.0.1:1080\n\n# comment\nnot a url\nsocks4://10.0.0.1:1080\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	p, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Len())
}

func TestNewErrors(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing.txt"))
	assert.True(t, errors.Is(err, errors.ErrConfig))

	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, []byte("\n"), 0644))
	_, err = New(path)
	assert.True(t, errors.Is(err, errors.ErrConfig))
}

func TestGetRotates(t *testing.T) {
	p := FromList([]string{"socks5://a:1", "socks5://b:1", "socks5://c:1"})

	var hosts []string
	for range 4 {
		u, err := p.Get()
		require.NoError(t, err)
		hosts = append(hosts, u.Hostname())
	}
	assert.Equal(t, []string{"a", "b", "c", "a"}, hosts)

	_, err := FromList(nil).Get()
	assert.Error(t, err)
}
