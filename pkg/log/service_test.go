package log

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mwantia/fabric/pkg/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/mwantia/gomaterials/internal/config/server"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerServiceWithWriter("", config.LogServerConfig{Level: "warn", NoColor: true}, &buf)

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("disk at %d%%", 91)
	logger.Error("failed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "WARN")
	assert.Contains(t, lines[0], "disk at 91%")
	assert.Contains(t, lines[1], "ERROR")
}

func TestMessageWithoutArgsIsNotFormatted(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerServiceWithWriter("", config.LogServerConfig{NoColor: true}, &buf)

	msg := "100% done"
	logger.Info(msg)
	assert.Contains(t, buf.String(), "100% done")
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerServiceWithWriter("gomaterials", config.LogServerConfig{JSON: true}, &buf)

	logger.Named("http").Info("GET %s", "/api/materials")

	var entry logEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "gomaterials/http", entry.Service)
	assert.Equal(t, "GET /api/materials", entry.Message)
}

func TestParse(t *testing.T) {
	assert.Equal(t, Debug, Parse("debug"))
	assert.Equal(t, Warn, Parse(" WARNING "))
	assert.Equal(t, Error, Parse("error"))
	assert.Equal(t, Info, Parse("bogus"))
}

func TestResolve(t *testing.T) {
	var buf bytes.Buffer
	base := NewLoggerServiceWithWriter("gomaterials", config.LogServerConfig{JSON: true}, &buf)

	sc := container.NewServiceContainer()
	_, err := Resolve(context.Background(), sc, "material")
	assert.Error(t, err)

	require.NoError(t, container.Register[LoggerServiceImpl](sc,
		container.With[LoggerService](),
		container.WithInstance(base)))

	logger, err := Resolve(context.Background(), sc, "material")
	require.NoError(t, err)

	logger.Warn("named")
	var entry logEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "gomaterials/material", entry.Service)
}
