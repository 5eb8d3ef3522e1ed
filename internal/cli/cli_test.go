package cli

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestRegister(t *testing.T) {
	var f Flags
	cmd := &cobra.Command{Use: "x", RunE: func(*cobra.Command, []string) error { return nil }}
	f.Register(cmd)
	cmd.SetArgs([]string{"--config", "relief.yaml", "--log-level", "debug", "--metrics-file", "out.prom"})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, Flags{ConfigPath: "relief.yaml", LogLevel: "debug", MetricsFile: "out.prom"}, f)
}

func TestSetup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relief.prom")
	f := Flags{LogLevel: "info", MetricsFile: path}

	var out bytes.Buffer
	env, err := f.Setup(&out)
	require.NoError(t, err)
	_, err = uuid.Parse(env.RunID)
	require.NoError(t, err)
	assert.Equal(t, "DisasterResponse", env.Config.Dataset.Table)

	env.Logger.Info("loading data")
	env.Logger.Debug("hidden")
	assert.Contains(t, out.String(), "run_id="+env.RunID)
	assert.Contains(t, out.String(), `msg="loading data"`)
	assert.NotContains(t, out.String(), "hidden")

	env.Metrics.DatasetRows.Set(2)
	require.NoError(t, env.Finish())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "relief_etl_dataset_rows 2")
}

func TestSetupErrors(t *testing.T) {
	_, err := (&Flags{LogLevel: "loud"}).Setup(&bytes.Buffer{})
	assert.Error(t, err)

	_, err = (&Flags{ConfigPath: "/nonexistent/relief.yaml"}).Setup(&bytes.Buffer{})
	assert.Error(t, err)
}
