// Package profile loads profiler dumps into memory.
package profile

import (
	"bytes"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

type Compression string

const (
	CompressionNone Compression = "none"
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// DefaultMaxSize bounds the decompressed size of a profile.
const DefaultMaxSize = 1 << 30

var ErrTooLarge = errors.New("profile exceeds size limit")

// Profile is the raw content of one dump. Data must not be modified.
type Profile struct {
	Path        string
	Data        []byte
	FileSize    int64
	Compression Compression
	Checksum    uint64
}

type Loader struct {
	fs      afero.Fs
	maxSize int64
}

func NewLoader(fs afero.Fs) *Loader {
	return &Loader{fs: fs, maxSize: DefaultMaxSize}
}

func (l *Loader) WithMaxSize(n int64) *Loader {
	l.maxSize = n
	return l
}

// Load reads the file at path, inflating gzip or zstd framing when the
// content starts with the respective magic bytes. Neither the file nor its
// decompressed content may exceed the loader's size limit.
func (l *Loader) Load(path string) (*Profile, error) {
	f, err := l.fs.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading profile %s", path)
	}
	defer f.Close()
	if fi, err := f.Stat(); err == nil && fi.Size() > l.maxSize {
		return nil, errors.Wrapf(ErrTooLarge, "profile %s has %d bytes, limit is %d", path, fi.Size(), l.maxSize)
	}
	raw, err := l.readLimited(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading profile %s", path)
	}
	p := &Profile{
		Path:        path,
		FileSize:    int64(len(raw)),
		Compression: detect(raw),
	}
	switch p.Compression {
	case CompressionGzip:
		r, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, errors.Wrapf(err, "opening gzip stream of %s", path)
		}
		defer r.Close()
		p.Data, err = l.readLimited(r)
		if err != nil {
			return nil, errors.Wrapf(err, "inflating %s", path)
		}
	case CompressionZstd:
		d, err := zstd.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, errors.Wrapf(err, "opening zstd stream of %s", path)
		}
		defer d.Close()
		p.Data, err = l.readLimited(d)
		if err != nil {
			return nil, errors.Wrapf(err, "inflating %s", path)
		}
	default:
		p.Data = raw
	}
	p.Checksum = xxhash.Sum64(p.Data)
	return p, nil
}

// readLimited reads r to the end, failing with ErrTooLarge as soon as more
// than maxSize bytes arrive.
func (l *Loader) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > l.maxSize {
		return nil, errors.Wrapf(ErrTooLarge, "more than %d bytes", l.maxSize)
	}
	return data, nil
}

func detect(b []byte) Compression {
	switch {
	case bytes.HasPrefix(b, gzipMagic):
		return CompressionGzip
	case bytes.HasPrefix(b, zstdMagic):
		return CompressionZstd
	}
	return CompressionNone
}

// Header returns up to n leading bytes of the profile.
func (p *Profile) Header(n int) []byte {
	return p.Data[:min(n, len(p.Data))]
}
