package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/shelf/cli/internal/api/apitest"
	"github.com/gravitrone/shelf/cli/internal/cmd"
	"github.com/gravitrone/shelf/cli/internal/config"
)

func withHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv(config.EnvAPIURL, "")
	return dir
}

func execRoot(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMainHelpFlagDoesNotExit(t *testing.T) {
	withHome(t)
	oldArgs := os.Args
	os.Args = []string{"shelf", "--help"}
	defer func() { os.Args = oldArgs }()

	// main() should return normally for help (no os.Exit).
	main()
}

func TestHelpListsCommands(t *testing.T) {
	withHome(t)
	out, err := execRoot(t, "", "--help")
	require.NoError(t, err)
	for _, name := range []string{"login", "register", "logout", "password", "collections", "items", "users", "config"} {
		assert.Contains(t, out, name)
	}
}

func TestWireUsesConfigAndFlags(t *testing.T) {
	home := withHome(t)
	path := filepath.Join(home, "shelf.yaml")
	require.NoError(t, os.WriteFile(path, []byte("session_backend: memory\nconfirm_deletes: false\n"), 0600))

	env := &cmd.Env{}
	store, err := wire(context.Background(), rootFlags{configPath: path, apiURL: "http://flag:9"}, env)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, "http://flag:9", env.Config.APIURL)
	assert.False(t, env.ConfirmDeletes)
	require.NotNil(t, env.Gate)
	require.NotNil(t, env.Client)
	require.NotNil(t, env.Log)
}

func TestWireRejectsUnknownBackend(t *testing.T) {
	home := withHome(t)
	path := filepath.Join(home, "shelf.yaml")
	require.NoError(t, os.WriteFile(path, []byte("session_backend: redis\n"), 0600))

	_, err := wire(context.Background(), rootFlags{configPath: path}, &cmd.Env{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session_backend")
}

func TestCommandsRunThroughRoot(t *testing.T) {
	home := withHome(t)
	backend := apitest.New(t)
	path := filepath.Join(home, "shelf.yaml")
	require.NoError(t, os.WriteFile(path, []byte("session_backend: file\n"), 0600))

	flags := []string{"--config", path, "--api-url", backend.URL()}

	_, err := execRoot(t, "", append(flags, "collections", "list")...)
	require.Error(t, err)
	assert.Equal(t, cmd.NotLoggedIn, err.Error())

	backend.AddUser("Ana", "ana@x.io", "secret")
	out, err := execRoot(t, "secret\n", append(flags, "login", "--email", "ana@x.io")...)
	require.NoError(t, err)
	assert.Contains(t, out, "logged in as Ana")

	// the session outlives the process that stored it
	out, err = execRoot(t, "", append(flags, "collections", "list")...)
	require.NoError(t, err)
	assert.Contains(t, out, "no collections yet")

	_, err = execRoot(t, "", append(flags, "logout")...)
	require.NoError(t, err)
	_, err = execRoot(t, "", append(flags, "collections", "list")...)
	assert.Equal(t, cmd.NotLoggedIn, err.Error())
}
