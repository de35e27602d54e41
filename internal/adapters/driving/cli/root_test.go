package cli

import (
	"bytes"
	"testing"
)

// execute runs the root command with args and returns captured output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCmd_Use(t *testing.T) {
	if rootCmd.Use != "askdoc" {
		t.Errorf("unexpected root command use: %s", rootCmd.Use)
	}
}
