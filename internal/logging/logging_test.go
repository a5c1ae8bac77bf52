package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".lore", "lore.log")
	logger, closeFn, err := New(Options{Level: "debug", File: path})
	require.NoError(t, err)

	logger.With("component", "test").Debug("indexed", "docs", 3)
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "indexed"))
	assert.True(t, strings.Contains(string(data), "component=test"))
}

func TestLevelFilters(t *testing.T) {
	logger, closeFn, err := New(Options{Level: "warn", Discard: true})
	require.NoError(t, err)
	defer closeFn()
	assert.Equal(t, log.WarnLevel, logger.GetLevel())
}

func TestErrors(t *testing.T) {
	_, _, err := New(Options{Level: "loud", Discard: true})
	assert.Error(t, err)

	_, _, err = New(Options{})
	assert.Error(t, err, "a file sink needs a path")
}
