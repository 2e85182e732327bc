package logger

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		format  string
		wantErr bool
		enabled zapcore.Level
	}{
		{name: "defaults", level: "", format: "", enabled: zapcore.InfoLevel},
		{name: "debug console", level: "debug", format: "console", enabled: zapcore.DebugLevel},
		{name: "warn json", level: "warn", format: "json", enabled: zapcore.WarnLevel},
		{name: "bad level", level: "loud", format: "json", wantErr: true},
		{name: "bad format", level: "info", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.level, tt.format)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, l)
				return
			}
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(tt.enabled))
			assert.False(t, l.Core().Enabled(tt.enabled-1))
		})
	}
}

func TestZapWrapper_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core))

	log.WithFields(map[string]interface{}{"runId": "r-1"}).
		WithError(fmt.Errorf("boom")).
		Warn("copy failed", map[string]interface{}{"course": "CS101"})
	log.Debug("no fields", nil)

	require.Equal(t, 2, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "copy failed", entry.Message)
	ctx := entry.ContextMap()
	assert.Equal(t, "r-1", ctx["runId"])
	assert.Equal(t, "CS101", ctx["course"])
	assert.Equal(t, "boom", ctx["error"])
	assert.Empty(t, logs.All()[1].Context)
}
