package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNamedAndLevels(t *testing.T) {
	level := zap.NewAtomicLevelAt(InfoLevel.ZapLevel())
	core, logs := observer.New(level)
	log := New(core, level)

	engine := log.Named("engine").Named("market")
	assert.Equal(t, "engine.market", engine.GetName())

	engine.Debug("hidden")
	engine.Info("shown", zap.String("id", "m1"))
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "engine.market", entry.LoggerName)
	assert.Equal(t, "m1", entry.ContextMap()["id"])

	// children share the level
	log.SetLevel(DebugLevel)
	assert.Equal(t, DebugLevel, engine.GetLevel())
	engine.With(zap.Int("n", 1)).Debug("now shown")
	assert.Equal(t, 2, logs.Len())
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug": DebugLevel,
		"INFO":  InfoLevel,
		"":      InfoLevel,
		"warn":  WarnLevel,
		"error": ErrorLevel,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewLoggerFromEnv(t *testing.T) {
	assert.Equal(t, DebugLevel, NewLoggerFromEnv("dev").GetLevel())
	assert.Equal(t, InfoLevel, NewLoggerFromEnv("prod").GetLevel())
	NewTestLogger().Info("discarded")
}
