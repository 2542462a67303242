package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regginator/omniwordlist/errors"
)

func TestParseLengthRange(t *testing.T) {
	tests := []struct {
		in       string
		min, max int
		wantErr  bool
	}{
		{"5", 5, 5, false},
		{"3-8", 3, 8, false},
		{" 1 - 2 ", 1, 2, false},
		{"", 0, 0, true},
		{"1-2-3", 0, 0, true},
		{"a-3", 0, 0, true},
		{"8-3", 0, 0, true},
	}
	for _, tt := range tests {
		min, max, err := ParseLengthRange(tt.in)
		if tt.wantErr {
			require.Error(t, err, tt.in)
			assert.True(t, errors.Is(err, errors.ErrConfig), tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.min, min, tt.in)
		assert.Equal(t, tt.max, max, tt.in)
	}
}

func TestAddrWithDefaultPort(t *testing.T) {
	assert.Equal(t, "example.com:9000", AddrWithDefaultPort("example.com", "9000"))
	assert.Equal(t, "example.com:1", AddrWithDefaultPort("example.com:1", "9000"))
	assert.Equal(t, "[::1]:9000", AddrWithDefaultPort("::1", "9000"))
}

func TestLookupAddr(t *testing.T) {
	got, err := LookupAddr("127.0.0.1:80")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:80", got)

	got, err = LookupAddr("10.1.2.3")
	require.NoError(t, err)
	assert.Equal(t, "10.1.2.3", got)
}
