package logging

import (
	"testing"
	"time"

	"deckgen/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level   string
		wantErr bool
	}{
		{"debug", false},
		{"info", false},
		{"", false},
		{"warning", false},
		{"error", false},
		{"loud", true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l, err := New(config.LoggingConfig{Level: tt.level, Format: "json"}, false)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, l.Root())
		})
	}
}

func TestNew_VerboseForcesDebug(t *testing.T) {
	l, err := New(config.LoggingConfig{Level: "error"}, true)
	require.NoError(t, err)
	assert.True(t, l.Root().Core().Enabled(zapcore.DebugLevel))
}

func TestFor_DisabledCategoryIsNop(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := &Logger{
		root: zap.New(core),
		cfg:  config.LoggingConfig{Categories: map[string]bool{"ranker": false}},
	}

	l.For(CategoryRanker).Info("hidden")
	l.For(CategoryParser).Info("shown")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "shown", entries[0].Message)
	assert.Equal(t, "parser", entries[0].LoggerName)
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	assert.NotNil(t, l.For(CategoryBoot))
	assert.NotNil(t, l.Root())
	l.Sync()
	assert.NotNil(t, Nop().For(CategoryVerify))
}

func TestTimer(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	timer := StartTimer(zap.New(core), "parse")
	elapsed := timer.StopWithThreshold(time.Hour)
	assert.GreaterOrEqual(t, elapsed, time.Duration(0))
	require.Len(t, logs.All(), 1)
	assert.Equal(t, zapcore.DebugLevel, logs.All()[0].Level)

	slow := StartTimer(zap.New(core), "verify")
	slow.StopWithThreshold(-time.Second)
	assert.Equal(t, zapcore.WarnLevel, logs.All()[1].Level)
}
