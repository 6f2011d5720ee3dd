package cli

import (
	"context"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CASH_METHOD_LABEL=Especie\n"), 0o600))
	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("CASH_METHOD_LABEL", "")
	require.NoError(t, os.Unsetenv("CASH_METHOD_LABEL"))

	LoadEnvFile(path)
	assert.Equal(t, "Especie", os.Getenv("CASH_METHOD_LABEL"))

	cfg, err := LoadAndValidateConfig()
	require.NoError(t, err)
	assert.Equal(t, "Especie", cfg.CashMethodLabel)
}

func TestLoadAndValidateConfig_Invalid(t *testing.T) {
	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("PORT", "not-a-port")
	_, err := LoadAndValidateConfig()
	assert.Error(t, err)
}

func TestShutdownOn(t *testing.T) {
	sig := make(chan os.Signal, 1)
	var cleaned bool
	done := shutdownOn(sig, SetupLogger("error"), time.Second, func(ctx context.Context) {
		_, hasDeadline := ctx.Deadline()
		cleaned = hasDeadline
	})

	sig <- syscall.SIGTERM
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("shutdown did not complete")
	}
	assert.True(t, cleaned, "cleanup should run with a deadline")
}
