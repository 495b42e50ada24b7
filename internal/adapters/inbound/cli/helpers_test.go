package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/abdidvp/storediag/internal/adapters/inbound/cli"
	"github.com/stretchr/testify/require"
)

var fixtureDir = filepath.Join("..", "..", "..", "..", "testdata", "stores")

// env is an isolated data dir seeded with the store fixtures and an empty config dir.
type env struct {
	dataDir   string
	configDir string
}

func newEnv(t *testing.T) env {
	t.Helper()
	root := t.TempDir()
	e := env{dataDir: filepath.Join(root, "data"), configDir: filepath.Join(root, "config")}
	require.NoError(t, os.CopyFS(e.dataDir, os.DirFS(fixtureDir)))
	require.NoError(t, os.MkdirAll(e.configDir, 0o755))
	return e
}

// run executes the root command and returns stdout.
func (e env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCmdForTest()
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(append([]string{"--data-dir", e.dataDir, "--config-dir", e.configDir}, args...))
	err := cmd.Execute()
	return out.String(), err
}
