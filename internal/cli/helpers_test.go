package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// execute runs the root command with args in an isolated environment and
// returns what was written to stdout and to the status output.
func execute(t *testing.T, args ...string) (out, ui string, err error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	var outBuf, uiBuf bytes.Buffer
	oldUI, oldOut := uiOut, stdout
	uiOut, stdout = &uiBuf, &outBuf
	t.Cleanup(func() { uiOut, stdout = oldUI, oldOut })

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&outBuf)
	root.SetErr(io.Discard)
	err = root.ExecuteContext(context.Background())
	return outBuf.String(), uiBuf.String(), err
}

// writeFile creates name in a temp dir with the given content.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const smallDB = "1 2\n1 2\n1\n"
