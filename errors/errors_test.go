package errors

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
		want string
	}{
		{"config", Configf("min_length must be > 0"), ErrConfig, "config"},
		{"charset", Charsetf("unknown charset: %s", "klingon"), ErrInvalidCharset, "charset"},
		{"generator", Generatorf("no pattern specified"), ErrGenerator, "generator"},
		{"transform", Transformf("unknown transform: %s", "nope"), ErrTransform, "transform"},
		{"filter", Filterf("bad regex"), ErrFilter, "filter"},
		{"storage", Storagef("unsupported compression: %s", "rar"), ErrStorage, "storage"},
		{"field", Fieldf("fields conflict"), ErrField, "field"},
		{"preset", Presetf("preset not found: %s", "x"), ErrPreset, "preset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, tt.err)
			assert.True(t, Is(tt.err, tt.kind))
			assert.Equal(t, tt.want, Kind(tt.err))
		})
	}
}

func TestConfigfKeepsMessage(t *testing.T) {
	err := Configf("max_length %d exceeds %d", 2000, 1000)
	assert.Equal(t, "max_length 2000 exceeds 1000", err.Error())
}

func TestWrapKind(t *testing.T) {
	err := WrapKind(io.ErrUnexpectedEOF, ErrSerialization, "failed to decode checkpoint")

	assert.True(t, Is(err, ErrSerialization))
	assert.True(t, Is(err, io.ErrUnexpectedEOF))
	assert.Contains(t, err.Error(), "failed to decode checkpoint")
	assert.Equal(t, "serialization", Kind(err))
}

func TestWrapKindNil(t *testing.T) {
	assert.NoError(t, WrapKind(nil, ErrStorage, "ignored"))
	assert.NoError(t, WrapKindf(nil, ErrStorage, "ignored %d", 1))
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, "internal", Kind(New("boom")))
	assert.Equal(t, "", Kind(nil))
}

func TestKindsDoNotOverlap(t *testing.T) {
	err := Transformf("unknown transform")
	assert.False(t, Is(err, ErrConfig))
	assert.False(t, Is(err, ErrStorage))
}
