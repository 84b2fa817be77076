package info

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/daily/pkg/app"
	"tableflip.dev/daily/pkg/store"
)

func TestInfo(t *testing.T) {
	cfg := &store.FileConfig{Path: t.TempDir(), Policy: store.PolicyAppend}
	p, err := store.Load(cfg, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	i := Info{Config: cfg, Service: &app.Service{Persistence: p}, Out: &buf}
	require.NoError(t, i.Do(context.Background()))
	assert.Contains(t, buf.String(), cfg.Path)
	assert.Contains(t, buf.String(), "append")
	assert.Contains(t, buf.String(), "Reports:          0")
	assert.Contains(t, buf.String(), "today_work")
}
