package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestReplace_Restores(t *testing.T) {
	before := L()
	core, logs := observer.New(zap.InfoLevel)

	restore := Replace(zap.New(core))
	L().Info("captured")
	restore()

	assert.Equal(t, 1, logs.FilterMessage("captured").Len())
	assert.Same(t, before, L())
}

func TestWithRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	t.Cleanup(Replace(zap.New(core)))

	ctx := WithRequestID(context.Background(), "abc")
	WithContext(ctx).Info("hello")

	assert.Equal(t, "abc", GetRequestID(ctx))
	assert.Empty(t, GetRequestID(context.Background()))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "abc", entries[0].ContextMap()["request_id"])
}

func TestSetLevel(t *testing.T) {
	require.NoError(t, Init(Config{Level: "warn", Format: "json", OutputPath: "stderr"}))
	t.Cleanup(func() { SetLevel("info") })

	assert.False(t, L().Core().Enabled(zapcore.InfoLevel))

	SetLevel("debug")
	assert.True(t, L().Core().Enabled(zapcore.DebugLevel))

	// Unknown levels leave the current one in place
	SetLevel("loud")
	assert.True(t, L().Core().Enabled(zapcore.DebugLevel))
}
