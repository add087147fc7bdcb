// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level, format string
		enabled       zapcore.Level
		disabled      zapcore.Level
	}{
		{"", "", zapcore.InfoLevel, zapcore.DebugLevel},
		{"debug", FormatConsole, zapcore.DebugLevel, zapcore.DebugLevel - 1},
		{"warn", FormatJSON, zapcore.WarnLevel, zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level+"/"+tt.format, func(t *testing.T) {
			log, err := New(tt.level, tt.format)
			require.NoError(t, err)
			assert.True(t, log.Core().Enabled(tt.enabled))
			assert.False(t, log.Core().Enabled(tt.disabled))
		})
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New("loud", FormatJSON)
	assert.Error(t, err)
	_, err = New("info", "xml")
	assert.Error(t, err)
}
