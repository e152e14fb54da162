package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := WithLogger(context.Background(), logger)
	require.Same(t, logger, FromContext(ctx))

	ctx = With(ctx, "run_id", "r1")
	FromContext(ctx).Info("hello")
	assert.Contains(t, buf.String(), "run_id=r1")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestFromContext_PanicsWithoutLogger(t *testing.T) {
	assert.Panics(t, func() { FromContext(context.Background()) })
}
