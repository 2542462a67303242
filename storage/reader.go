package storage

import (
	"bufio"
	"io"
	"iter"
	"os"
	"strings"

	"github.com/regginator/omniwordlist/errors"
)

// maxLineSize bounds a single line read back from an output or wordlist.
const maxLineSize = 1 << 20

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r *readCloser) Close() error {
	var first error
	for _, c := range r.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// OpenReader opens path and undoes the given compression. Use
// DetectCompression to pick the codec from the file name.
func OpenReader(path string, c Compression) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapKindf(err, errors.ErrStorage, "opening %s", path)
	}
	dec, err := newDecompressor(bufio.NewReader(f), c)
	if err != nil {
		f.Close()
		return nil, errors.WrapKindf(err, errors.ErrStorage, "reading %s stream from %s", c, path)
	}
	return &readCloser{Reader: dec, closers: []io.Closer{dec, f}}, nil
}

// Lines yields the lines of r without their terminators. A trailing
// carriage return is dropped. Scan errors are yielded with an empty line.
func Lines(r io.Reader) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for scanner.Scan() {
			if !yield(strings.TrimSuffix(scanner.Text(), "\r"), nil) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield("", errors.WrapKind(err, errors.ErrStorage, "reading lines"))
		}
	}
}

// ReadLines reads every line of a possibly compressed file.
func ReadLines(path string, c Compression) ([]string, error) {
	r, err := OpenReader(path, c)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var out []string
	for line, err := range Lines(r) {
		if err != nil {
			return nil, err
		}
		out = append(out, line)
	}
	return out, nil
}
