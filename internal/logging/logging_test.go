package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("info", &buf)
	require.NoError(t, err)

	log.Debugw("hidden", "k", 1)
	log.Infow("opened database", "path", "a.kdbx", "entries", 3)
	require.NoError(t, log.Sync())

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "opened database")
	assert.Contains(t, out, `"path": "a.kdbx"`)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{in: "", want: zapcore.WarnLevel},
		{in: "debug", want: zapcore.DebugLevel},
		{in: "INFO", want: zapcore.InfoLevel},
		{in: "error", want: zapcore.ErrorLevel},
		{in: "chatty", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("loud", &bytes.Buffer{})
	assert.Error(t, err)
}
