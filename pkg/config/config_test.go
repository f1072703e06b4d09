package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestLoad_Defaults(t *testing.T) {
	c, err := Load(newViper(), false)
	require.NoError(t, err)

	assert.Equal(t, "./compile", c.Compiler)
	assert.Equal(t, 5*time.Second, c.Timeout)
	assert.Equal(t, "reference", c.ReferenceDir)
	assert.Equal(t, ";", c.CommentPrefix)
	assert.Equal(t, "diff", c.DiffProgram)
	assert.Equal(t, []string{"", "rcx", "rbx", "rcx,rbx"}, c.RegisterOptions)
	assert.True(t, c.RequireSilentExecutable)
	assert.True(t, c.Progress)
	assert.Equal(t, Quiet, c.Verbosity)
	assert.Equal(t, "runtime.c", c.Toolchain.RuntimeSource)
	assert.False(t, c.Toolchain.Arm64)
	assert.Equal(t, c.Timeout, c.Toolchain.Timeout, "the toolchain shares the run timeout")
}

func TestLoad_Overrides(t *testing.T) {
	v := newViper()
	v.Set(KeyTimeout, "250ms")
	v.Set(KeyRegs, "rcx;rdx,rsi")
	v.Set(KeyVeryVerbose, true)
	v.Set(KeyQuiet, true)
	v.Set(KeyCC, "cc")

	c, err := Load(v, true)
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, c.Timeout)
	assert.Equal(t, []string{"rcx", "rdx,rsi"}, c.RegisterOptions)
	assert.Equal(t, VeryVerbose, c.Verbosity)
	assert.False(t, c.Progress)
	assert.Equal(t, "cc", c.Toolchain.CC)
	assert.True(t, c.Toolchain.Arm64)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".passcheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte("compiler: bin/compile\nreference-dir: golden\ntimeout: 2s\n"), 0o644))

	v := newViper()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	c, err := Load(v, false)
	require.NoError(t, err)
	assert.Equal(t, "bin/compile", c.Compiler)
	assert.Equal(t, "golden", c.ReferenceDir)
	assert.Equal(t, 2*time.Second, c.Timeout)
}

func TestLoad_Invalid(t *testing.T) {
	v := newViper()
	v.Set(KeyTimeout, "0s")

	_, err := Load(v, false)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestParseRegisterOptions(t *testing.T) {
	assert.Equal(t, []string{""}, ParseRegisterOptions(""))
	assert.Equal(t, []string{"", "rcx", "rbx", "rcx,rbx"}, ParseRegisterOptions(";rcx;rbx;rcx,rbx"))
	assert.Equal(t, "a;b,c", FormatRegisterOptions([]string{"a", "b,c"}))
}
