package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestFileLogger_CreatesDirAndWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.log")

	f, logger, err := FileLogger(logrus.InfoLevel, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	logger.WithField("kind", "ktp").Info("import reported")

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(b), `"kind":"ktp"`)
	require.Contains(t, string(b), "import reported")
}

func TestNop_DiscardsErrors(t *testing.T) {
	entry := Nop()
	require.False(t, entry.Logger.IsLevelEnabled(logrus.ErrorLevel))
}
