package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure_FileOutputJSON(t *testing.T) {
	l := logrus.New()
	path := filepath.Join(t.TempDir(), "logs", "priceboard.log")

	require.NoError(t, configure(l, Config{Level: "debug", Format: "json", Output: "file", Filename: path, MaxSize: 1}))
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())

	l.WithField("range", "1w").Info("range selected")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"range":"1w"`)
	assert.Contains(t, string(data), `"msg":"range selected"`)
}

func TestConfigure_Rejects(t *testing.T) {
	tests := []Config{
		{Level: "loud"},
		{Level: "info", Format: "xml"},
		{Level: "info", Output: "syslog"},
		{Level: "info", Output: "file"},
	}
	for _, cfg := range tests {
		assert.Error(t, configure(logrus.New(), cfg), "%+v", cfg)
	}
}
