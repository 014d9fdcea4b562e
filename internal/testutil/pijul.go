package testutil

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// RequirePijul aborts the calling test when pijul is not present on PATH.
func RequirePijul(t *testing.T) string {
	t.Helper()
	path, err := exec.LookPath("pijul")
	if err != nil {
		t.Skip("skipping: pijul binary not available")
	}
	return path
}

// StartPijulRepo initialises a throwaway pijul repository and creates the
// supplied channels next to the default one. It returns the repository root.
func StartPijulRepo(t *testing.T, channels ...string) string {
	t.Helper()
	bin := RequirePijul(t)
	dir := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command(bin, args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(), "HOME="+dir)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Skipf("skipping: pijul %s failed: %v: %s", strings.Join(args, " "), err, out)
		}
	}
	run("init")
	for _, name := range channels {
		run("channel", "new", name)
	}
	return dir
}

// FakePijul describes the behaviour of a scripted pijul stand-in.
type FakePijul struct {
	ListOutput string
	ListExit   int
	SwitchExit int
	Stderr     string
}

// WriteFakePijul writes an executable shell script mimicking the pijul
// channel subcommands and returns its path together with the file that
// records every switched channel name.
func WriteFakePijul(t *testing.T, fake FakePijul) (string, string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping: fake pijul script requires a POSIX shell")
	}
	dir := t.TempDir()
	bin := filepath.Join(dir, "pijul")
	switchLog := filepath.Join(dir, "switched.log")

	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	b.WriteString("if [ \"$1\" = \"channel\" ] && [ \"$2\" = \"list\" ]; then\n")
	if fake.ListOutput != "" {
		b.WriteString("cat <<'__PIJUL_LIST__'\n")
		b.WriteString(strings.TrimSuffix(fake.ListOutput, "\n"))
		b.WriteString("\n__PIJUL_LIST__\n")
	}
	if fake.ListExit != 0 && fake.Stderr != "" {
		fmt.Fprintf(&b, "echo %q >&2\n", fake.Stderr)
	}
	fmt.Fprintf(&b, "exit %d\nfi\n", fake.ListExit)
	b.WriteString("if [ \"$1\" = \"channel\" ] && [ \"$2\" = \"switch\" ]; then\n")
	fmt.Fprintf(&b, "echo \"$3\" >> %q\n", switchLog)
	if fake.SwitchExit != 0 && fake.Stderr != "" {
		fmt.Fprintf(&b, "echo %q >&2\n", fake.Stderr)
	}
	fmt.Fprintf(&b, "exit %d\nfi\n", fake.SwitchExit)
	b.WriteString("echo \"unsupported: $*\" >&2\nexit 2\n")

	if err := os.WriteFile(bin, []byte(b.String()), 0o755); err != nil {
		t.Fatalf("failed to write fake pijul: %v", err)
	}
	return bin, switchLog
}

// ReadLines returns the non-empty lines of path, or nil when it is missing.
func ReadLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatalf("failed to read %s: %v", path, err)
	}
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
