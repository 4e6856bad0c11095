// Package parser's source.go implements the Source stage: it opens the
// input file, transparently decompresses it, and yields lines in file
// order on a buffered string channel, terminated by channel close, the
// in-band end-of-stream marker downstream components build on.
package parser

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/bodgit/sevenzip"
	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
	"github.com/spf13/afero"
)

const (
	// scannerBuffer/scannerMaxBuffer size bufio.Scanner for the occasional
	// very long syslog line without paying for a 100MB buffer on every run.
	scannerBuffer    = 64 * 1024
	scannerMaxBuffer = 16 * 1024 * 1024
)

// codec opens a streaming decompressing reader over a compressed file.
type codec struct {
	name   string
	opener func(io.Reader) (io.ReadCloser, error)
}

var (
	gzipCodec = codec{name: "gzip", opener: func(r io.Reader) (io.ReadCloser, error) {
		threads := runtime.GOMAXPROCS(0)
		if threads > 8 {
			threads = 8
		}
		if threads < 1 {
			threads = 1
		}
		return pgzip.NewReaderN(r, 1<<20, threads)
	}}
	zstdCodec = codec{name: "zstd", opener: func(r io.Reader) (io.ReadCloser, error) {
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return &zstdReadCloser{dec}, nil
	}}
)

type zstdReadCloser struct{ *zstd.Decoder }

func (z *zstdReadCloser) Close() error { z.Decoder.Close(); return nil }

// codecFor picks a decompression codec by file extension. The second return
// value is false for .7z (handled separately, as it is an archive format
// rather than a stream filter) and for plain, uncompressed files.
func codecFor(path string) (codec, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".tgz":
		return gzipCodec, true
	case ".zst", ".zstd":
		return zstdCodec, true
	default:
		return codec{}, false
	}
}

// Source streams the lines of an input log file, transparently handling
// plain text and gzip-, zstd- and 7z-compressed input. fs abstracts the
// filesystem so tests can substitute an in-memory afero.Fs; .7z archives
// are the exception and are opened by path from the OS filesystem, not
// through fs.
type Source struct {
	fs afero.Fs
}

// NewSource constructs a Source backed by fs.
func NewSource(fs afero.Fs) *Source {
	return &Source{fs: fs}
}

// Open begins streaming path's lines. It returns the line channel, the
// wall-clock instant reading began (the start barrier the throughput
// monitor needs), and an error if the file or its envelope could not be
// opened. The returned channel is closed once the file is fully read or a
// read error terminates the stream early.
func (s *Source) Open(path string) (<-chan string, time.Time, error) {
	start := time.Now()

	if strings.EqualFold(filepath.Ext(path), ".7z") {
		lines, err := s.open7z(path)
		return lines, start, err
	}

	f, err := s.fs.Open(path)
	if err != nil {
		return nil, start, fmt.Errorf("parser: opening %s: %w", path, err)
	}

	var r io.ReadCloser = f
	if c, ok := codecFor(path); ok {
		dr, err := c.opener(f)
		if err != nil {
			f.Close()
			return nil, start, fmt.Errorf("parser: opening %s decoder for %s: %w", c.name, path, err)
		}
		r = combinedCloser{Reader: dr, closers: []io.Closer{dr, f}}
	}

	return scanLines(r), start, nil
}

// open7z opens the first entry of a 7z archive, treating the archive's
// single log file as the source.
func (s *Source) open7z(path string) (<-chan string, error) {
	r, err := sevenzip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("parser: opening 7z archive %s: %w", path, err)
	}
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("parser: reading 7z entry %s: %w", f.Name, err)
		}
		return scanLines(combinedCloser{Reader: rc, closers: []io.Closer{rc, r}}), nil
	}
	r.Close()
	return nil, fmt.Errorf("parser: 7z archive %s has no file entries", path)
}

// combinedCloser wraps a Reader with a closer list run in order on Close so
// both the decompression layer and the underlying file get released.
type combinedCloser struct {
	io.Reader
	closers []io.Closer
}

func (c combinedCloser) Close() error {
	var first error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func scanLines(r io.ReadCloser) <-chan string {
	out := make(chan string, 256)
	go func() {
		defer close(out)
		defer r.Close()
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, scannerBuffer), scannerMaxBuffer)
		for scanner.Scan() {
			out <- scanner.Text()
		}
	}()
	return out
}
