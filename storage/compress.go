package storage

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/regginator/omniwordlist/errors"
)

// Compression identifies the stream codec wrapped around an output.
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionBzip2
	CompressionLZ4
	CompressionZstd
)

var compressionNames = []string{"none", "gzip", "bzip2", "lz4", "zstd"}

var compressionExts = map[Compression]string{
	CompressionGzip:  ".gz",
	CompressionBzip2: ".bz2",
	CompressionLZ4:   ".lz4",
	CompressionZstd:  ".zst",
}

// String returns the config name of the codec.
func (c Compression) String() string {
	if int(c) < len(compressionNames) {
		return compressionNames[c]
	}
	return "unknown"
}

// Extension returns the conventional file suffix, empty for none.
func (c Compression) Extension() string {
	return compressionExts[c]
}

// Compressions lists the accepted codec names.
func Compressions() []string {
	return append([]string(nil), compressionNames...)
}

// ParseCompression maps a codec name to a Compression. The empty string
// means none. Unknown names are a storage error.
func ParseCompression(name string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return CompressionNone, nil
	case "gzip", "gz":
		return CompressionGzip, nil
	case "bzip2", "bz2":
		return CompressionBzip2, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd", "zst":
		return CompressionZstd, nil
	default:
		return 0, errors.WithHintf(
			errors.Storagef("unsupported compression: %s", name),
			"supported: %s", strings.Join(compressionNames, ", "),
		)
	}
}

// DetectCompression guesses the codec from a file extension.
func DetectCompression(path string) Compression {
	ext := strings.ToLower(filepath.Ext(path))
	for c, e := range compressionExts {
		if e == ext {
			return c
		}
	}
	return CompressionNone
}

// compressor is a codec stream that can push buffered data downstream
// without ending the stream. Codecs without a flush point treat Flush as
// a no-op.
type compressor interface {
	io.WriteCloser
	Flush() error
}

type nopFlusher struct{ io.WriteCloser }

func (nopFlusher) Flush() error { return nil }

type passthrough struct{ io.Writer }

func (passthrough) Close() error { return nil }
func (passthrough) Flush() error { return nil }

func newCompressor(w io.Writer, c Compression) (compressor, error) {
	switch c {
	case CompressionNone:
		return passthrough{w}, nil
	case CompressionGzip:
		return gzip.NewWriterLevel(w, gzip.DefaultCompression)
	case CompressionBzip2:
		bw, err := bzip2.NewWriter(w, &bzip2.WriterConfig{Level: bzip2.DefaultCompression})
		if err != nil {
			return nil, err
		}
		return nopFlusher{bw}, nil
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	case CompressionZstd:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	default:
		return nil, errors.Storagef("unsupported compression tag: %d", c)
	}
}

func newDecompressor(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case CompressionNone:
		return io.NopCloser(r), nil
	case CompressionGzip:
		return gzip.NewReader(r)
	case CompressionBzip2:
		return bzip2.NewReader(r, nil)
	case CompressionLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case CompressionZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	default:
		return nil, errors.Storagef("unsupported compression tag: %d", c)
	}
}
