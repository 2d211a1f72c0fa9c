package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, Debug, ParseLevel(" DEBUG "))
	assert.Equal(t, Warn, ParseLevel("warning"))
	assert.Equal(t, Error, ParseLevel("error"))
	assert.Equal(t, Info, ParseLevel(""))
	assert.Equal(t, Info, ParseLevel("verbose"))
	assert.Equal(t, zapcore.WarnLevel, Warn.zap())
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("JSON"))
	assert.Equal(t, FormatText, ParseFormat("logfmt"))
}

func TestZapLogger_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := (&ZapLogger{z: zap.New(core)}).With(map[string]any{"component": "profiles", "": "dropped"})

	l.Debug("hidden", nil)
	l.Warn("directory propagation failed", map[string]any{"profile_id": "U1", "err": errors.New("timeout")})

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		ctx := entries[0].ContextMap()
		assert.Equal(t, "profiles", ctx["component"])
		assert.Equal(t, "U1", ctx["profile_id"])
		assert.Equal(t, "timeout", ctx["err"])
		assert.NotContains(t, ctx, "")
	}
}
