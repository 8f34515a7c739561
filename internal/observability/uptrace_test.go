package observability

import (
	"context"
	"testing"

	"github.com/riskibarqy/match-commentary/internal/config"
	"github.com/riskibarqy/match-commentary/internal/platform/logging"
	"github.com/stretchr/testify/require"
)

func TestInitUptrace_Disabled(t *testing.T) {
	cfg := config.Config{
		UptraceEnabled: false,
		ServiceName:    "match-commentary-pipeline",
		ServiceVersion: "dev",
		AppEnv:         config.EnvDev,
	}

	shutdown, err := InitUptrace(cfg, logging.NewNop())
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestInitUptrace_EnabledWithoutDSN(t *testing.T) {
	shutdown, err := InitUptrace(config.Config{UptraceEnabled: true, UptraceDSN: "  "}, nil)
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestInitPyroscope_Disabled(t *testing.T) {
	stop, err := InitPyroscope(config.Config{PyroscopeEnabled: false}, logging.NewNop())
	require.NoError(t, err)
	require.NoError(t, stop())
}
