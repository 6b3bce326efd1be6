package environment_test

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lotdrop/lotdrop/pkg/environment"
)

func TestNewEnvironmentAppliesDefaults(t *testing.T) {
	fs := afero.NewMemMapFs()

	env, err := environment.NewEnvironment(fs, &environment.Environment{
		Home: "/home/u",
		Pwd:  "/work",
	})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", env.Host)
	assert.Equal(t, 8580, env.Port)
	assert.Equal(t, int64(32), env.MaxUploadMB)
	assert.Equal(t, "0", env.NonInteractive)
	assert.NotEmpty(t, env.DataDir)
	assert.Equal(t, filepath.Join(env.DataDir, "lotdrop.db"), env.DBPath)
}

func TestNewEnvironmentKeepsExplicitValues(t *testing.T) {
	fs := afero.NewMemMapFs()

	env, err := environment.NewEnvironment(fs, &environment.Environment{
		Host:        "0.0.0.0",
		Port:        9000,
		DataDir:     "/var/lib/lotdrop",
		MaxUploadMB: 8,
	})
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", env.Addr())
	assert.Equal(t, int64(8<<20), env.MaxUploadBytes())
	assert.Equal(t, "/var/lib/lotdrop/lotdrop.db", env.DBPath)
}

func TestNewEnvironmentOverlaysEnvFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/work/lotdrop.env",
		[]byte("LOTDROP_PORT=9999\nLOTDROP_HOST=0.0.0.0\n"), 0o644))

	t.Setenv("PWD", "/work")
	t.Setenv("LOTDROP_HOST", "192.168.1.10")

	env, err := environment.NewEnvironment(fs, nil)
	require.NoError(t, err)

	// File values fill the gaps; real environment variables win.
	assert.Equal(t, 9999, env.Port)
	assert.Equal(t, "192.168.1.10", env.Host)
}

func TestIsNonInteractive(t *testing.T) {
	env := &environment.Environment{NonInteractive: "1"}
	assert.True(t, env.IsNonInteractive())

	env.NonInteractive = "0"
	assert.False(t, env.IsNonInteractive())
}
