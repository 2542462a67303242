// Package storage persists generation output and progress: the token
// sinks with their compression codecs, checkpoints, job records and the
// per-job lock.
package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/regginator/omniwordlist/config"
	"github.com/regginator/omniwordlist/errors"
	"github.com/regginator/omniwordlist/filter"
	"github.com/regginator/omniwordlist/logger"
)

// ErrLimitReached is returned by Write once max_bytes would be exceeded.
// The token that hit the limit is not written.
var ErrLimitReached = errors.New("output limit reached")

const writeBufferSize = 64 * 1024

// Sink receives the final token stream.
type Sink interface {
	Write(token string) error
	// Flush pushes buffered tokens to the underlying file or connection.
	Flush() error
	Close() error
	Stats() SinkStats
}

// SinkStats counts what a sink has accepted. Bytes are uncompressed.
// Part, PartLines and FileBytes locate the end of the output inside the
// file being written, which is what a checkpoint needs to continue it.
type SinkStats struct {
	Lines uint64 `json:"lines"`
	Bytes uint64 `json:"bytes"`
	Parts int    `json:"parts"`

	// Part is the current part number, 0 when the output is not split.
	Part      int    `json:"part,omitempty"`
	PartLines uint64 `json:"part_lines"`
	PartBytes uint64 `json:"part_bytes"`
	// FileBytes is the uncompressed size of the current file, header
	// included.
	FileBytes uint64 `json:"file_bytes"`
}

// encoder renders one token in an output format.
type encoder struct {
	format string
}

func (e encoder) header() []byte {
	if e.format == config.FormatCSV {
		return []byte("token,length,entropy\n")
	}
	return nil
}

func (e encoder) encode(token string) ([]byte, error) {
	switch e.format {
	case config.FormatJSONL:
		b, err := json.Marshal(struct {
			Token string `json:"token"`
		}{token})
		if err != nil {
			return nil, errors.WrapKind(err, errors.ErrSerialization, "encoding jsonl record")
		}
		return append(b, '\n'), nil
	case config.FormatCSV:
		var sb strings.Builder
		sb.WriteByte('"')
		sb.WriteString(strings.ReplaceAll(token, `"`, `""`))
		sb.WriteString(`",`)
		sb.WriteString(strconv.Itoa(utf8.RuneCountInString(token)))
		sb.WriteByte(',')
		sb.WriteString(strconv.FormatFloat(filter.Entropy(token), 'f', 2, 64))
		sb.WriteByte('\n')
		return []byte(sb.String()), nil
	default:
		return []byte(token + "\n"), nil
	}
}

// SinkOptions configures a file or stdout sink.
type SinkOptions struct {
	Format      string
	Compression Compression
	MaxBytes    uint64
	SplitLines  uint64
	SplitBytes  uint64
	// Append continues an existing output instead of truncating it.
	Append bool
	// Resume, together with Append, puts the output back where a
	// checkpoint left it: anything written after the checkpoint is cut
	// off and the counters carry on, so max_bytes and split limits hold
	// across runs.
	Resume *SinkStats
}

// FileSink writes tokens to a file, rotating into numbered part files
// when a split limit is set.
type FileSink struct {
	path string
	opts SinkOptions
	enc  encoder

	file *os.File
	buf  *bufio.Writer
	comp compressor

	part      int
	partLines uint64
	partBytes uint64
	fileBytes uint64
	stats     SinkStats
}

// NewFileSink opens path for writing. Parent directories are created.
func NewFileSink(path string, opts SinkOptions) (*FileSink, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.WrapKindf(err, errors.ErrStorage, "creating output directory %s", dir)
		}
	}
	s := &FileSink{path: path, opts: opts, enc: encoder{format: opts.Format}}
	if opts.Append && opts.Resume != nil {
		if err := s.restore(*opts.Resume); err != nil {
			return nil, err
		}
		return s, nil
	}
	if s.split() {
		s.part = 1
	}
	if err := s.open(opts.Append); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileSink) split() bool {
	return s.opts.SplitLines > 0 || s.opts.SplitBytes > 0
}

// PartPath returns the name of part n of path: out.txt.gz becomes
// out.001.txt.gz.
func PartPath(path string, n int) string {
	dir, base := filepath.Split(path)
	stem, rest, found := strings.Cut(base, ".")
	if !found {
		return fmt.Sprintf("%s%s.%03d", dir, base, n)
	}
	return fmt.Sprintf("%s%s.%03d.%s", dir, stem, n, rest)
}

func (s *FileSink) currentPath() string {
	if s.part == 0 {
		return s.path
	}
	return PartPath(s.path, s.part)
}

func (s *FileSink) attach(f *os.File) error {
	s.file = f
	s.buf = bufio.NewWriterSize(f, writeBufferSize)
	comp, err := newCompressor(s.buf, s.opts.Compression)
	if err != nil {
		f.Close()
		s.file = nil
		return errors.WrapKindf(err, errors.ErrStorage, "initialising %s compressor", s.opts.Compression)
	}
	s.comp = comp
	return nil
}

// open starts the current part. appendFile keeps what the file already
// holds; its size only counts towards FileBytes when uncompressed.
func (s *FileSink) open(appendFile bool) error {
	path := s.currentPath()
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if appendFile {
		flags = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return errors.WrapKindf(err, errors.ErrStorage, "opening output %s", path)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return errors.WrapKindf(err, errors.ErrStorage, "stat output %s", path)
	}
	if err := s.attach(f); err != nil {
		return err
	}
	s.partLines, s.partBytes, s.fileBytes = 0, 0, 0
	if s.opts.Compression == CompressionNone {
		s.fileBytes = uint64(info.Size())
	}
	s.stats.Parts++

	// a resumed csv keeps the header it already has
	if h := s.enc.header(); h != nil && info.Size() == 0 {
		if _, err := s.comp.Write(h); err != nil {
			return errors.WrapKind(err, errors.ErrStorage, "writing header")
		}
		s.fileBytes += uint64(len(h))
	}
	logger.Debugw("Opened output",
		logger.FieldFile, path,
		logger.FieldFormat, s.opts.Format,
		logger.FieldCompression, s.opts.Compression.String(),
	)
	return nil
}

// restore reopens the part a checkpoint was taken in, drops the parts
// started after it and cuts the current part back to its checkpointed
// size.
func (s *FileSink) restore(r SinkStats) error {
	s.stats = SinkStats{Lines: r.Lines, Bytes: r.Bytes, Parts: max(r.Parts, 1)}
	s.part, s.partLines, s.partBytes = r.Part, r.PartLines, r.PartBytes
	if s.split() && s.part == 0 {
		s.part = 1
	}
	if s.split() {
		for n := s.part + 1; ; n++ {
			err := os.Remove(PartPath(s.path, n))
			if os.IsNotExist(err) {
				break
			}
			if err != nil {
				return errors.WrapKindf(err, errors.ErrStorage, "removing stale part %d", n)
			}
		}
	}
	if s.opts.Compression == CompressionNone {
		return s.truncate(r.FileBytes)
	}
	return s.recompress(r.FileBytes)
}

func (s *FileSink) truncate(keep uint64) error {
	path := s.currentPath()
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return errors.WrapKindf(err, errors.ErrStorage, "opening output %s", path)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return errors.WrapKindf(err, errors.ErrStorage, "stat output %s", path)
	}
	if uint64(info.Size()) < keep {
		f.Close()
		return errors.WithHint(
			errors.Storagef("output %s holds %d bytes, the checkpoint expects %d", path, info.Size(), keep),
			"the output was modified since the checkpoint; start a new job",
		)
	}
	if err := f.Truncate(int64(keep)); err != nil {
		f.Close()
		return errors.WrapKindf(err, errors.ErrStorage, "truncating %s", path)
	}
	s.fileBytes = keep
	return s.attach(f)
}

// recompress rewrites the first keep uncompressed bytes of the current
// part into a fresh stream and leaves that stream open for writing. A
// stream cut off by a crash has no trailer, and appending a new stream
// after it would leave the file undecodable.
func (s *FileSink) recompress(keep uint64) error {
	path := s.currentPath()
	tmp := path + ".tmp"
	out, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return errors.WrapKindf(err, errors.ErrStorage, "creating %s", tmp)
	}
	if err := s.attach(out); err != nil {
		os.Remove(tmp)
		return err
	}
	fail := func(err error) error {
		s.comp.Close()
		s.file.Close()
		s.file = nil
		os.Remove(tmp)
		return err
	}

	if keep > 0 {
		src, err := os.Open(path)
		if err != nil {
			return fail(errors.WrapKindf(err, errors.ErrStorage, "opening output %s", path))
		}
		dec, err := newDecompressor(src, s.opts.Compression)
		if err != nil {
			src.Close()
			return fail(errors.WrapKindf(err, errors.ErrStorage, "reading output %s", path))
		}
		n, err := io.CopyN(s.comp, dec, int64(keep))
		dec.Close()
		src.Close()
		if uint64(n) < keep {
			return fail(errors.WithHint(
				errors.WrapKindf(err, errors.ErrStorage, "output %s holds %d of the %d bytes the checkpoint expects", path, n, keep),
				"a crash can lose the buffered tail of a bzip2 stream; start a new job",
			))
		}
	}
	if err := os.Rename(tmp, path); err != nil {
		return fail(errors.WrapKindf(err, errors.ErrStorage, "replacing %s", path))
	}
	s.fileBytes = keep
	return nil
}

func (s *FileSink) closeCurrent() error {
	if s.file == nil {
		return nil
	}
	err := s.comp.Close()
	if ferr := s.buf.Flush(); err == nil {
		err = ferr
	}
	if cerr := s.file.Close(); err == nil {
		err = cerr
	}
	s.file = nil
	return errors.WrapKindf(err, errors.ErrStorage, "closing output %s", s.currentPath())
}

func (s *FileSink) rotate() error {
	if err := s.closeCurrent(); err != nil {
		return err
	}
	s.part++
	return s.open(false)
}

func (s *FileSink) needsRotation(n uint64) bool {
	if !s.split() || s.partLines == 0 {
		return false
	}
	if s.opts.SplitLines > 0 && s.partLines >= s.opts.SplitLines {
		return true
	}
	return s.opts.SplitBytes > 0 && s.partBytes+n > s.opts.SplitBytes
}

// Write appends one token.
func (s *FileSink) Write(token string) error {
	if s.file == nil {
		return errors.Storagef("write to closed sink %s", s.path)
	}
	line, err := s.enc.encode(token)
	if err != nil {
		return err
	}
	n := uint64(len(line))
	if s.opts.MaxBytes > 0 && s.stats.Bytes+n > s.opts.MaxBytes {
		return ErrLimitReached
	}
	if s.needsRotation(n) {
		if err := s.rotate(); err != nil {
			return err
		}
	}
	if _, err := s.comp.Write(line); err != nil {
		return errors.WrapKindf(err, errors.ErrStorage, "writing to %s", s.currentPath())
	}
	s.partLines++
	s.partBytes += n
	s.fileBytes += n
	s.stats.Lines++
	s.stats.Bytes += n
	return nil
}

// Flush pushes buffered data to disk.
func (s *FileSink) Flush() error {
	if s.file == nil {
		return nil
	}
	if err := s.comp.Flush(); err != nil {
		return errors.WrapKind(err, errors.ErrStorage, "flushing compressor")
	}
	return errors.WrapKind(s.buf.Flush(), errors.ErrStorage, "flushing output")
}

// Close finishes the compressed stream and closes the file.
func (s *FileSink) Close() error {
	return s.closeCurrent()
}

// Stats reports what has been written.
func (s *FileSink) Stats() SinkStats {
	st := s.stats
	st.Part = s.part
	st.PartLines = s.partLines
	st.PartBytes = s.partBytes
	st.FileBytes = s.fileBytes
	return st
}

// Paths lists the files written so far.
func (s *FileSink) Paths() []string {
	if !s.split() {
		return []string{s.path}
	}
	out := make([]string, 0, s.part)
	for i := 1; i <= s.part; i++ {
		out = append(out, PartPath(s.path, i))
	}
	return out
}

// StreamSink writes tokens to an io.Writer such as stdout. It never
// closes the writer.
type StreamSink struct {
	enc   encoder
	opts  SinkOptions
	buf   *bufio.Writer
	comp  compressor
	stats SinkStats
}

// NewStreamSink wraps w.
func NewStreamSink(w io.Writer, opts SinkOptions) (*StreamSink, error) {
	s := &StreamSink{enc: encoder{format: opts.Format}, opts: opts, buf: bufio.NewWriterSize(w, writeBufferSize)}
	var err error
	s.comp, err = newCompressor(s.buf, opts.Compression)
	if err != nil {
		return nil, errors.WrapKind(err, errors.ErrStorage, "initialising compressor")
	}
	if h := s.enc.header(); h != nil && opts.Resume == nil {
		if _, err := s.comp.Write(h); err != nil {
			return nil, errors.WrapKind(err, errors.ErrStorage, "writing header")
		}
	}
	s.stats.Parts = 1
	if r := opts.Resume; r != nil {
		s.stats.Lines, s.stats.Bytes = r.Lines, r.Bytes
	}
	return s, nil
}

// Write appends one token.
func (s *StreamSink) Write(token string) error {
	line, err := s.enc.encode(token)
	if err != nil {
		return err
	}
	n := uint64(len(line))
	if s.opts.MaxBytes > 0 && s.stats.Bytes+n > s.opts.MaxBytes {
		return ErrLimitReached
	}
	if _, err := s.comp.Write(line); err != nil {
		return errors.WrapKind(err, errors.ErrStorage, "writing token")
	}
	s.stats.Lines++
	s.stats.Bytes += n
	return nil
}

// Flush pushes buffered data to the writer.
func (s *StreamSink) Flush() error {
	if err := s.comp.Flush(); err != nil {
		return errors.WrapKind(err, errors.ErrStorage, "flushing compressor")
	}
	return errors.WrapKind(s.buf.Flush(), errors.ErrStorage, "flushing output")
}

// Close ends the compressed stream and flushes.
func (s *StreamSink) Close() error {
	if err := s.comp.Close(); err != nil {
		return errors.WrapKind(err, errors.ErrStorage, "closing compressor")
	}
	return errors.WrapKind(s.buf.Flush(), errors.ErrStorage, "flushing output")
}

// Stats reports what has been written.
func (s *StreamSink) Stats() SinkStats { return s.stats }

// IsRemote reports whether an output descriptor names a network consumer.
func IsRemote(output string) bool {
	for _, scheme := range []string{"tcp://", "ws://", "wss://"} {
		if strings.HasPrefix(output, scheme) {
			return true
		}
	}
	return false
}

// Open builds the sink a config describes: a remote consumer for
// tcp:// and ws(s):// outputs, stdout for "" or "-", a file otherwise.
// An unknown compression name fails before anything is opened. resume,
// when set, is the output position saved with the checkpoint.
func Open(ctx context.Context, cfg config.Config, appendOutput bool, resume *SinkStats) (Sink, error) {
	comp, err := ParseCompression(cfg.Compression)
	if err != nil {
		return nil, err
	}
	opts := SinkOptions{
		Format:      cfg.OutputFormat(),
		Compression: comp,
		MaxBytes:    cfg.MaxBytes,
		SplitLines:  cfg.SplitLines,
		SplitBytes:  cfg.SplitBytes,
		Append:      appendOutput,
		Resume:      resume,
	}

	var sink Sink
	switch out := cfg.OutputFile; {
	case IsRemote(out):
		sink, err = DialRemote(ctx, out, RemoteOptions{
			Format:    opts.Format,
			MaxBytes:  opts.MaxBytes,
			ProxyFile: cfg.ProxyFile,
			RateLimit: cfg.RateLimit,
			Resume:    resume,
		})
	case out == "" || out == "-":
		sink, err = NewStreamSink(os.Stdout, opts)
	default:
		sink, err = NewFileSink(out, opts)
	}
	if err != nil {
		return nil, err
	}
	return sink, nil
}
