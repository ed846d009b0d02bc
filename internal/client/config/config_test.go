package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, rest, err := LoadConfig([]string{"list"}, map[string]string{})
	require.NoError(t, err)

	want := &Config{ServerEndpointAddr: "127.0.0.1:50051"}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"list"}, rest)
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cli.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"server_endpoint_addr":"file:1","access_token":"file-token"}`), 0o600))

	// file only
	cfg, _, err := LoadConfig([]string{"-c", path, "list"}, map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, &Config{ServerEndpointAddr: "file:1", AccessToken: "file-token"}, cfg)

	// env beats file
	environ := map[string]string{"GOPHTASKS_TOKEN": "env-token", "GOPHTASKS_SERVER_ADDR": "env:2"}
	cfg, _, err = LoadConfig([]string{"-config", path, "list"}, environ)
	require.NoError(t, err)
	assert.Equal(t, &Config{ServerEndpointAddr: "env:2", AccessToken: "env-token"}, cfg)

	// flags beat env
	cfg, rest, err := LoadConfig([]string{"-c", path, "-a", "flag:3", "-k", "flag-token", "get", "id1"}, environ)
	require.NoError(t, err)
	assert.Equal(t, &Config{ServerEndpointAddr: "flag:3", AccessToken: "flag-token"}, cfg)
	assert.Equal(t, []string{"get", "id1"}, rest)
}

func TestLoadConfig_CommandFlagsAreLeftAlone(t *testing.T) {
	_, rest, err := LoadConfig([]string{"create", "-t", "title", "-d", "desc"}, map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, []string{"create", "-t", "title", "-d", "desc"}, rest)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, _, err := LoadConfig([]string{"-unknown"}, map[string]string{})
	assert.Error(t, err)

	_, _, err = LoadConfig([]string{"-h"}, map[string]string{})
	assert.ErrorIs(t, err, ErrHelp)

	_, _, err = LoadConfig([]string{"-c", filepath.Join(t.TempDir(), "missing.json")}, map[string]string{})
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
	_, _, err = LoadConfig([]string{"-c", bad}, map[string]string{})
	assert.Error(t, err)
}
