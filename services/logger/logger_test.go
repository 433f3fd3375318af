package logsvc

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/coursehub/backend/core"
)

func TestLogger_fields(t *testing.T) {
	obsCore, logs := observer.New(zapcore.DebugLevel)
	l := &Logger{sugar: zap.New(obsCore).Sugar()}

	l.Error(
		"storing notifications",
		errors.New("connection refused"),
		map[string]interface{}{"batch": 3},
		core.Identity{UserID: "u-1", Role: core.RoleLecturer},
	)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "storing notifications", entries[0].Message)

	fields := entries[0].ContextMap()
	assert.Contains(t, fields["error"], "connection refused")
	assert.Equal(t, map[string]interface{}{"batch": 3}, fields["extras"])
	assert.Equal(t, "u-1", fields["caller_id"])
	assert.Equal(t, core.RoleLecturer, fields["caller_role"])
}

func TestLogger_levels(t *testing.T) {
	obsCore, logs := observer.New(zapcore.DebugLevel)
	l := &Logger{sugar: zap.New(obsCore).Sugar()}

	l.Debug("d")
	l.Info("i")
	l.Warn("w", "extra")

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, "extra", entries[2].ContextMap()["arg0"])
}
