package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/config"
)

func TestSetup_Disabled(t *testing.T) {
	ctx := context.Background()

	// When: telemetry is disabled
	shutdown, err := Setup(ctx, config.Telemetry{Enabled: false})
	require.NoError(t, err)

	// Then: spans are not recorded and shutdown is harmless
	_, span := Tracer("test").Start(ctx, "noop")
	assert.False(t, span.IsRecording())
	span.End()

	require.NoError(t, shutdown(ctx))
}

func TestSetup_Enabled(t *testing.T) {
	ctx := context.Background()

	// When: telemetry is enabled, the exporter connects lazily
	shutdown, err := Setup(ctx, config.Telemetry{
		Enabled:     true,
		Endpoint:    "127.0.0.1:4318",
		Insecure:    true,
		ServiceName: "tictactoe-test",
	})
	require.NoError(t, err)

	// Then: spans are recorded
	_, span := Tracer("test").Start(ctx, "recorded")
	assert.True(t, span.IsRecording())
	span.End()

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_ = shutdown(canceled)
}
