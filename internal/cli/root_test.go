package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/config"
)

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	serve, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)
	assert.Equal(t, "serve", serve.Name())

	play, _, err := cmd.Find([]string{"play"})
	require.NoError(t, err)
	assert.Equal(t, "play", play.Name())
	assert.NotNil(t, play.Flags().Lookup("log-file"))

	flag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, flag)
	assert.Equal(t, defaultConfigPath, flag.DefValue)
}

func TestInitConfig(t *testing.T) {
	t.Run("Missing file uses defaults", func(t *testing.T) {
		conf, err := initConfig(filepath.Join(t.TempDir(), "config.yml"))

		require.NoError(t, err)
		assert.Equal(t, "9090", conf.HTTPPort)
	})

	t.Run("Existing file is read", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte(`socket-port: "7000"`), 0o600))

		conf, err := initConfig(path)

		require.NoError(t, err)
		assert.Equal(t, "7000", conf.SocketPort)
	})
}

func TestInitLogger(t *testing.T) {
	tests := []struct {
		level      string
		debugShown bool
		infoShown  bool
	}{
		{level: "debug", debugShown: true, infoShown: true},
		{level: "info", debugShown: false, infoShown: true},
		{level: "warn", debugShown: false, infoShown: false},
		{level: "nonsense", debugShown: false, infoShown: true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var out bytes.Buffer
			logger := initLogger(&config.Config{LogLevel: tt.level}, &out)

			logger.Debug("debug line")
			logger.Info("info line")

			assert.Equal(t, tt.debugShown, bytes.Contains(out.Bytes(), []byte("debug line")))
			assert.Equal(t, tt.infoShown, bytes.Contains(out.Bytes(), []byte("info line")))
		})
	}
}
