package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" info ":  zerolog.InfoLevel,
		"Warn":    zerolog.WarnLevel,
		"ERROR":   zerolog.ErrorLevel,
		"verbose": zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestSetupWritesBothSinks(t *testing.T) {
	var console, file bytes.Buffer
	log := Setup("warn", &console, &file)

	log.Info().Msg("hidden")
	log.Warn().Str("component", "game").Msg("shields low")

	assert.NotContains(t, console.String(), "hidden")
	assert.Contains(t, console.String(), "shields low")
	assert.Contains(t, file.String(), "shields low")
	assert.Contains(t, file.String(), "component=game")
	assert.NotContains(t, file.String(), "\x1b[", "file output is uncolored")
}

func TestOpenFileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.log")
	for i := 0; i < 2; i++ {
		f, err := OpenFile(path)
		require.NoError(t, err)
		_, err = f.WriteString("line\n")
		require.NoError(t, err)
		require.NoError(t, f.Close())
	}
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "line\nline\n", string(data))
}
