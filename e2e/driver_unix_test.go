//go:build e2e && unix

package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"
	"unsafe"

	"github.com/creack/pty"
	"github.com/stretchr/testify/require"
)

const ringSize = 1 << 20      // 1 MiB of scrollback
var binPath = "makerbot_e2e" // set by TestMain

// ANSI escape sequence regex for normalization - covers CSI, OSC, charset, keypad modes
var ansiRe = regexp.MustCompile(
	`(?:\x1b\[[0-9;?]*[ -/]*[@-~])|` + // CSI sequences
		`(?:\x1b\][^\x07]*\x07)|` + // OSC sequences
		`(?:\x1b[\(\)][A-Za-z])|` + // charset sequences
		`(?:\x1b=|\x1b>)|` + // keypad mode sequences
		`\r`, // carriage returns
)

// dryRunConfig keeps every run off the real input helper
const dryRunConfig = `
[backend]
kind = "dry-run"

[timing]
menu_settle_ms = 20
confirm_settle_ms = 20
window_settle_ms = 0
`

// CLITest runs the makerbot binary inside a PTY in a scratch workspace
type CLITest struct {
	t         *testing.T
	pty       *os.File
	tty       *os.File
	cmd       *exec.Cmd
	workspace string
	exited    chan error

	// Ring buffer for continuous output capture
	mu   sync.Mutex
	buf  []byte
	head int
	full bool
}

// NewCLITest creates a workspace holding a dry-run config
func NewCLITest(t *testing.T) *CLITest {
	tf := &CLITest{
		t:         t,
		buf:       make([]byte, ringSize),
		workspace: t.TempDir(),
	}
	tf.WriteFile("config.toml", dryRunConfig)
	t.Cleanup(tf.Cleanup)
	return tf
}

// Path returns an absolute path inside the workspace
func (tf *CLITest) Path(name string) string {
	return filepath.Join(tf.workspace, name)
}

// WriteFile creates a file inside the workspace
func (tf *CLITest) WriteFile(name, content string) string {
	tf.t.Helper()
	path := tf.Path(name)
	require.NoError(tf.t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(tf.t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// Start launches makerbot with the workspace config and the given arguments
func (tf *CLITest) Start(args ...string) {
	tf.t.Helper()

	cmdArgs := append([]string{"-config", tf.Path("config.toml")}, args...)
	tf.cmd = exec.Command(binPath, cmdArgs...)
	tf.cmd.Dir = tf.workspace
	tf.cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"LC_ALL=C",
		"LANG=C",
		"HOME="+tf.workspace,
		"XDG_CONFIG_HOME="+tf.Path("xdg"),
	)

	ptyFile, tty, err := pty.Open()
	require.NoError(tf.t, err, "failed to open pty")
	tf.pty = ptyFile
	tf.tty = tty
	tf.cmd.Stdout = tty
	tf.cmd.Stdin = tty
	tf.cmd.Stderr = tty

	// Set terminal size
	ws := struct {
		Row uint16
		Col uint16
		X   uint16
		Y   uint16
	}{40, 120, 0, 0}
	syscall.Syscall(syscall.SYS_IOCTL, ptyFile.Fd(), uintptr(syscall.TIOCSWINSZ), uintptr(unsafe.Pointer(&ws)))

	require.NoError(tf.t, tf.cmd.Start(), "failed to start command")

	tf.exited = make(chan error, 1)
	go func() { tf.exited <- tf.cmd.Wait() }()
	tf.startReader()
}

// startReader starts the continuous reader goroutine
func (tf *CLITest) startReader() {
	go func() {
		buf := make([]byte, 8192)
		for {
			n, err := tf.pty.Read(buf)
			if n > 0 {
				tf.mu.Lock()
				for i := 0; i < n; i++ {
					tf.buf[tf.head] = buf[i]
					tf.head = (tf.head + 1) % ringSize
					if tf.head == 0 {
						tf.full = true
					}
				}
				tf.mu.Unlock()
			}
			if err != nil {
				return
			}
		}
	}()
}

// SendKeys writes keystrokes to the application
func (tf *CLITest) SendKeys(keys string) error {
	_, err := tf.pty.Write([]byte(keys))
	return err
}

// Interrupt delivers SIGINT as a terminal would on Ctrl+C
func (tf *CLITest) Interrupt() error {
	return tf.cmd.Process.Signal(os.Interrupt)
}

// SeePlain waits for text to appear in the normalized output
func (tf *CLITest) SeePlain(text string, timeout time.Duration) bool {
	tf.t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		if strings.Contains(tf.SnapshotPlain(), text) {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(25 * time.Millisecond)
	}
}

// RequireSee fails the test with the output tail when text never appears
func (tf *CLITest) RequireSee(text string, timeout time.Duration) {
	tf.t.Helper()
	if !tf.SeePlain(text, timeout) {
		tf.t.Fatalf("expected %q in output\n--- tail ---\n%s", text, tf.tail(4096))
	}
}

// WaitExit waits for the process and returns its exit status
func (tf *CLITest) WaitExit(timeout time.Duration) (int, error) {
	select {
	case err := <-tf.exited:
		tf.cmd = nil
		if err == nil {
			return 0, nil
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, err
	case <-time.After(timeout):
		return -1, fmt.Errorf("process still running after %s\n--- tail ---\n%s", timeout, tf.tail(4096))
	}
}

// Snapshot returns the current contents of the ring buffer
func (tf *CLITest) Snapshot() string {
	tf.mu.Lock()
	defer tf.mu.Unlock()
	if !tf.full {
		return string(tf.buf[:tf.head])
	}
	out := make([]byte, ringSize)
	copy(out, tf.buf[tf.head:])
	copy(out[ringSize-tf.head:], tf.buf[:tf.head])
	return string(out)
}

// SnapshotPlain returns the ring buffer with ANSI sequences removed
func (tf *CLITest) SnapshotPlain() string {
	return ansiRe.ReplaceAllString(tf.Snapshot(), "")
}

func (tf *CLITest) tail(n int) string {
	s := tf.SnapshotPlain()
	if len(s) > n {
		s = s[len(s)-n:]
	}
	return s
}

// Cleanup closes the PTY and terminates the application
func (tf *CLITest) Cleanup() {
	// Close PTY first to deliver SIGHUP to child process
	if tf.pty != nil {
		_ = tf.pty.Close()
		tf.pty = nil
	}
	if tf.tty != nil {
		_ = tf.tty.Close()
		tf.tty = nil
	}
	if tf.cmd != nil && tf.cmd.Process != nil {
		_ = tf.cmd.Process.Kill()
		<-tf.exited
		tf.cmd = nil
	}
}
