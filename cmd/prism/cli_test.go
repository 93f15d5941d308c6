package main

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jadenpxrk/prism/internal/config"
)

// setViperKey injects a value as if it came from the config file or the
// environment, restoring the previous value when the test ends.
func setViperKey(t *testing.T, key string, value any) {
	t.Helper()
	prev := viper.Get(key)
	viper.Set(key, value)
	t.Cleanup(func() { viper.Set(key, prev) })
}

func TestSplitPatterns(t *testing.T) {
	assert.Nil(t, splitPatterns(""))
	assert.Equal(t, []string{"*.go", "*.ts"}, splitPatterns("*.go,*.ts"))
	assert.Equal(t, []string{"*.go"}, splitPatterns(" *.go , "))
}

func TestBuildOptions_Defaults(t *testing.T) {
	setViperKey(t, "no_tokens", true)

	opts, err := buildOptions()
	require.NoError(t, err)
	assert.Equal(t, config.FormatStructured, opts.Render.Format)
	assert.True(t, opts.Filter.RespectIgnoreFile)
	assert.Equal(t, -1, opts.Filter.MaxDepth)
}

func TestBuildOptions_BadSizeFailsFast(t *testing.T) {
	setViperKey(t, "max_size", "12parsecs")

	_, err := buildOptions()
	assert.Error(t, err)
}

func TestBuildOptions_ExtensionsNormalized(t *testing.T) {
	setViperKey(t, "no_tokens", true)
	setViperKey(t, "extensions", "go,TS")

	opts, err := buildOptions()
	require.NoError(t, err)
	assert.Equal(t, []string{".go", ".ts"}, opts.Filter.AllowedExtensions)
}

func TestBuildOptions_ConfigValuesApply(t *testing.T) {
	setViperKey(t, "no_tokens", true)
	setViperKey(t, "format", config.FormatPlain)
	setViperKey(t, "max_size", "1kb")
	setViperKey(t, "max_total", "5kb")
	setViperKey(t, "exclude", "*.log,tmp/**")
	setViperKey(t, "no_ignore", true)

	opts, err := buildOptions()
	require.NoError(t, err)
	assert.Equal(t, config.FormatPlain, opts.Render.Format)
	assert.Equal(t, int64(1000), opts.Filter.MaxFileSize)
	assert.Equal(t, int64(5000), opts.Filter.MaxTotalSize)
	assert.Equal(t, []string{"*.log", "tmp/**"}, opts.Filter.IgnorePatterns)
	assert.False(t, opts.Filter.RespectIgnoreFile)
}
