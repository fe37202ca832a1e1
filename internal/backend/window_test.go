package backend

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"makerbot/internal/domain"
)

type capturedCommand struct {
	name string
	args []string
}

func capturingRunner(out *[]capturedCommand, fail error) CommandRunner {
	return func(ctx context.Context, name string, args ...string) ([]byte, error) {
		*out = append(*out, capturedCommand{name: name, args: args})
		return nil, fail
	}
}

func TestAppleScriptWindow(t *testing.T) {
	var cmds []capturedCommand
	w, err := NewWindowController("darwin", "", capturingRunner(&cmds, nil))
	require.NoError(t, err)

	require.NoError(t, w.Focus(context.Background()))
	require.NoError(t, w.ResizeAndMove(context.Background(), 100, 100, 915, 600))

	require.Len(t, cmds, 2)
	assert.Equal(t, "osascript", cmds[0].name)
	assert.Equal(t, []string{"-e", `activate application "Ryujinx"`}, cmds[0].args)
	assert.Contains(t, cmds[1].args[1], `tell process "Ryujinx"`)
	assert.Contains(t, cmds[1].args[1], "set position of window 1 to {100, 100}")
	assert.Contains(t, cmds[1].args[1], "set size of window 1 to {915, 600}")
}

func TestXdotoolWindow(t *testing.T) {
	var cmds []capturedCommand
	w, err := NewWindowController("linux", "yuzu", capturingRunner(&cmds, nil))
	require.NoError(t, err)

	require.NoError(t, w.ResizeAndMove(context.Background(), 10, 20, 915, 600))
	require.Len(t, cmds, 1)
	assert.Equal(t, "xdotool", cmds[0].name)
	assert.Equal(t, []string{"search", "--name", "yuzu", "windowmove", "10", "20", "windowsize", "915", "600"}, cmds[0].args)
}

func TestWindowFailureIsBackendIOError(t *testing.T) {
	var cmds []capturedCommand
	w, err := NewWindowController("darwin", "Ryujinx", capturingRunner(&cmds, errors.New("not allowed")))
	require.NoError(t, err)

	err = w.Focus(context.Background())
	var ioErr *domain.BackendIOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "focus", ioErr.Op)
}

func TestUnsupportedPlatform(t *testing.T) {
	_, err := NewWindowController("plan9", "Ryujinx", runCommand)
	var unsupported *domain.UnsupportedPlatformError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "plan9", unsupported.Platform)

	_, err = New(context.Background(), Options{Kind: KindExec, GOOS: "windows"})
	assert.True(t, errors.As(err, &unsupported))
}

func TestNewSelectsKind(t *testing.T) {
	b, err := New(context.Background(), Options{Kind: KindDryRun})
	require.NoError(t, err)
	assert.IsType(t, &Recorder{}, b)
	assert.NoError(t, Close(b))

	b, err = New(context.Background(), Options{Kind: KindExec, GOOS: "linux"})
	require.NoError(t, err)
	assert.IsType(t, &Exec{}, b)

	_, err = New(context.Background(), Options{Kind: "carrier-pigeon"})
	assert.Error(t, err)

	_, err = New(context.Background(), Options{Kind: KindRemote})
	assert.Error(t, err)
}
