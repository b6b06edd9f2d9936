package clicontext

import (
	"bytes"
	"context"
	"testing"

	"github.com/go-kit/log"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	ctx := context.Background()
	require.NotNil(t, Logger(ctx))
	_, ok := Fs(ctx).(*afero.OsFs)
	require.True(t, ok)
}

func TestWithValues(t *testing.T) {
	var buf bytes.Buffer
	fs := afero.NewMemMapFs()
	ctx := WithFs(WithLogger(context.Background(), log.NewLogfmtLogger(&buf)), fs)

	require.NoError(t, Logger(ctx).Log("msg", "hello"))
	require.Equal(t, "msg=hello\n", buf.String())
	require.Equal(t, fs, Fs(ctx))
}
