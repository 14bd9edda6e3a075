package common

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{input: "debug", want: slog.LevelDebug},
		{input: "INFO", want: slog.LevelInfo},
		{input: "", want: slog.LevelInfo},
		{input: "warn", want: slog.LevelWarn},
		{input: "error", want: slog.LevelError},
		{input: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewHandler(t *testing.T) {
	var buf bytes.Buffer

	h, err := NewHandler(&buf, slog.LevelInfo, "json")
	require.NoError(t, err)
	slog.New(h).Info("seeded default row", "table", "car")
	assert.Contains(t, buf.String(), `"table":"car"`)

	buf.Reset()
	h, err = NewHandler(&buf, slog.LevelWarn, "console")
	require.NoError(t, err)
	logger := slog.New(h)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")

	_, err = NewHandler(&buf, slog.LevelInfo, "xml")
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLogHelpers(t *testing.T) {
	var buf bytes.Buffer
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	h, err := NewHandler(&buf, slog.LevelInfo, "console")
	require.NoError(t, err)
	slog.SetDefault(slog.New(h))

	LogError(errors.New("disk full"), "failed to import row", Fields{"line": 3})
	LogInfo("database ready", Fields{"schema_version": 1})

	out := buf.String()
	assert.Contains(t, out, "error=\"disk full\"")
	assert.Contains(t, out, "line=3")
	assert.Contains(t, out, "schema_version=1")
}

func TestUserError(t *testing.T) {
	cause := errors.New("no such file")
	err := NewUserError("cannot open import file", cause)
	assert.Equal(t, "cannot open import file: no such file", err.Error())
	assert.ErrorIs(t, err, cause)

	assert.Equal(t, "import file is empty", NewUserError("import file is empty", nil).Error())
}
