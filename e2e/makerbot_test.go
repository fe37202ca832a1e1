//go:build e2e && unix

package main

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const level = `[
  {"name": "Ground", "x": 1, "y": 14},
  {"name": "Coin", "x": 10, "y": 10},
  {"name": "Coin", "x": 11, "y": 10},
  {"name": "Waluigi", "x": 12, "y": 10}
]`

func TestPlaceDryRun(t *testing.T) {
	tf := NewCLITest(t)
	batch := tf.WriteFile("x.json", level)

	tf.Start("place", batch)
	tf.RequireSee("resize 100 100 915x600", 5*time.Second)
	tf.RequireSee("Placed 3 of 4 objects", 10*time.Second)
	tf.RequireSee("#4 Waluigi (12, 10)", time.Second)

	// Ground at (1, 14) sits under the menu
	assert.Contains(t, tf.SnapshotPlain(), "keystroke 0x1B 100ms")

	code, err := tf.WaitExit(5 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
}

func TestPlaceProgressView(t *testing.T) {
	tf := NewCLITest(t)
	batch := tf.WriteFile("x.json", level)

	tf.Start("place", "-tui", batch)
	tf.RequireSee("Placed 3 of 4 objects", 10*time.Second)

	code, err := tf.WaitExit(5 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
}

func TestPlanCommand(t *testing.T) {
	tf := NewCLITest(t)

	tf.Start("plan", "Block", "Coin")
	tf.RequireSee("Block  group 1 item 0  (4 inputs)", 5*time.Second)
	tf.RequireSee("Coin  group 2 item 0  (4 inputs)", time.Second)

	code, err := tf.WaitExit(5 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
}

func TestCatalogPager(t *testing.T) {
	tf := NewCLITest(t)

	tf.Start("catalog", "-pager")
	tf.RequireSee("Style smw", 5*time.Second)

	require.NoError(t, tf.SendKeys("q"))
	code, err := tf.WaitExit(5 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
}

func TestWatchInbox(t *testing.T) {
	tf := NewCLITest(t)
	tf.WriteFile("inbox/.keep", "")

	tf.Start("watch", "-settle", "50ms", tf.Path("inbox"))
	tf.RequireSee("Watching", 5*time.Second)

	tf.WriteFile("inbox/x.json", `[{"name": "Coin", "x": 10, "y": 10}]`)
	tf.RequireSee("Placed 1 of 1 objects", 10*time.Second)

	assert.Eventually(t, func() bool {
		_, err := os.Stat(tf.Path("inbox/x.json.done"))
		return err == nil
	}, 5*time.Second, 50*time.Millisecond)

	require.NoError(t, tf.Interrupt())
	code, err := tf.WaitExit(5 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
}

func TestUnknownCommandExitStatus(t *testing.T) {
	tf := NewCLITest(t)

	tf.Start("juggle")
	tf.RequireSee(`unknown command "juggle"`, 5*time.Second)

	code, err := tf.WaitExit(5 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, 2, code)
}

func TestConfigInit(t *testing.T) {
	tf := NewCLITest(t)

	tf.Start("config", "init")
	tf.RequireSee("already exists", 5*time.Second)
	code, err := tf.WaitExit(5 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, 1, code)
}
