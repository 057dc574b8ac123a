package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitLoggersWritesOneFilePerLogger(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, InitLoggers(dir))
	t.Cleanup(func() {
		ErrorLogger, AuditLogger, RequestLogger = zap.NewNop(), zap.NewNop(), zap.NewNop()
		SecurityLogger, SystemLogger = zap.NewNop(), zap.NewNop()
	})

	AuditLogger.Info("task created", zap.Int64("task_id", 7))
	SyncLoggers()

	b, err := os.ReadFile(filepath.Join(dir, "audit.log"))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"task_id":7`)
	assert.Contains(t, string(b), `"timestamp"`)

	for _, name := range []string{"errors", "request", "security", "system"} {
		_, err := os.Stat(filepath.Join(dir, name+".log"))
		assert.NoError(t, err, name)
	}
}

func TestLoggersDefaultToNop(t *testing.T) {
	assert.NotPanics(t, func() {
		ErrorLogger.Error("dropped")
		SecurityLogger.Warn("dropped")
	})
}
