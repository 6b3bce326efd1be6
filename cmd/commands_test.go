package cmd_test

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lotdrop/lotdrop/cmd"
	"github.com/lotdrop/lotdrop/pkg/environment"
	"github.com/lotdrop/lotdrop/pkg/logging"
	"github.com/lotdrop/lotdrop/pkg/version"
)

func testEnv(t *testing.T) *environment.Environment {
	t.Helper()
	dir := t.TempDir()
	return &environment.Environment{
		Home:           dir,
		Pwd:            dir,
		NonInteractive: "1",
		DataDir:        dir,
		DBPath:         filepath.Join(dir, "lotdrop.db"),
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	fs := afero.NewMemMapFs()
	env := testEnv(t)
	logger := logging.NewTestLogger(io.Discard)

	root := cmd.NewRootCommand(fs, context.Background(), env, logger)

	names := make([]string, 0)
	for _, sub := range root.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "init")
	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "lots")
	assert.Contains(t, names, "version")
}

func TestVersionCommand(t *testing.T) {
	versionCmd := cmd.NewVersionCommand()
	var out bytes.Buffer
	versionCmd.SetOut(&out)

	require.NoError(t, versionCmd.Execute())
	assert.Contains(t, out.String(), version.String())
}

func TestInitCommandCreatesDatabase(t *testing.T) {
	fs := afero.NewOsFs()
	env := testEnv(t)
	logger := logging.NewTestLogger(io.Discard)

	initCmd := cmd.NewInitCommand(fs, context.Background(), env, logger)
	require.NoError(t, initCmd.Execute())

	exists, err := afero.Exists(fs, env.DBPath)
	require.NoError(t, err)
	assert.True(t, exists)

	// Re-running against an existing database is a no-op, not an error.
	require.NoError(t, initCmd.Execute())
}

func TestLotsCommandRequiresAuctionFlag(t *testing.T) {
	fs := afero.NewOsFs()
	env := testEnv(t)
	logger := logging.NewTestLogger(io.Discard)

	lotsCmd := cmd.NewLotsCommand(fs, context.Background(), env, logger)
	lotsCmd.SetOut(io.Discard)
	lotsCmd.SetErr(io.Discard)

	assert.Error(t, lotsCmd.Execute())
}
