package profile

import (
	"bytes"
	"os"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

var payload = []byte("\x0a\x0dScheduledTick\x12\x04tick")

func writeFile(t *testing.T, fs afero.Fs, name string, data []byte) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, name, data, 0o644))
}

func gzipped(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func zstded(t *testing.T, data []byte) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	defer enc.Close()
	return enc.EncodeAll(data, nil)
}

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "plain.sparkprofile", payload)
	writeFile(t, fs, "gz.sparkprofile", gzipped(t, payload))
	writeFile(t, fs, "zst.sparkprofile", zstded(t, payload))

	for name, compression := range map[string]Compression{
		"plain.sparkprofile": CompressionNone,
		"gz.sparkprofile":    CompressionGzip,
		"zst.sparkprofile":   CompressionZstd,
	} {
		t.Run(name, func(t *testing.T) {
			p, err := NewLoader(fs).Load(name)
			require.NoError(t, err)
			require.Equal(t, compression, p.Compression)
			require.Equal(t, payload, p.Data)
			require.Equal(t, xxhash.Sum64(payload), p.Checksum)
			require.Equal(t, name, p.Path)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := NewLoader(afero.NewMemMapFs()).Load("nope")
	require.Error(t, err)
	require.Contains(t, err.Error(), "reading profile nope")
}

func TestLoadMaxSize(t *testing.T) {
	fs := afero.NewMemMapFs()
	big := bytes.Repeat(payload, 100)
	writeFile(t, fs, "plain", payload)
	writeFile(t, fs, "gz", gzipped(t, big))

	_, err := NewLoader(fs).WithMaxSize(4).Load("plain")
	require.ErrorIs(t, err, ErrTooLarge)
	require.Contains(t, err.Error(), "profile plain has 21 bytes, limit is 4")
	_, err = NewLoader(fs).WithMaxSize(4).Load("gz")
	require.ErrorIs(t, err, ErrTooLarge)

	// the compressed file fits, its content does not
	_, err = NewLoader(fs).WithMaxSize(int64(len(big)) - 1).Load("gz")
	require.ErrorIs(t, err, ErrTooLarge)
	require.Contains(t, err.Error(), "inflating gz")

	p, err := NewLoader(fs).WithMaxSize(int64(len(big))).Load("gz")
	require.NoError(t, err)
	require.Equal(t, big, p.Data)
}

// A file that reports no size must still be cut off at the limit.
func TestLoadMaxSizeWithoutStat(t *testing.T) {
	fs := &unsizedFs{Fs: afero.NewMemMapFs()}
	writeFile(t, fs.Fs, "plain", payload)

	_, err := NewLoader(fs).WithMaxSize(4).Load("plain")
	require.ErrorIs(t, err, ErrTooLarge)
	require.Contains(t, err.Error(), "more than 4 bytes")

	p, err := NewLoader(fs).WithMaxSize(int64(len(payload))).Load("plain")
	require.NoError(t, err)
	require.Equal(t, payload, p.Data)
}

type unsizedFs struct{ afero.Fs }

func (fs *unsizedFs) Open(name string) (afero.File, error) {
	f, err := fs.Fs.Open(name)
	if err != nil {
		return nil, err
	}
	return unsizedFile{f}, nil
}

type unsizedFile struct{ afero.File }

func (unsizedFile) Stat() (os.FileInfo, error) { return nil, os.ErrInvalid }

func TestHeader(t *testing.T) {
	p := &Profile{Data: []byte("abc")}
	require.Equal(t, []byte("ab"), p.Header(2))
	require.Equal(t, []byte("abc"), p.Header(20))
}
