package ui

import (
	"io"
	"strings"

	"github.com/noborus/ov/oviewer"
)

// ShowInPager pages content with ov. It takes over the terminal until the
// user quits.
func ShowInPager(content string) error {
	return runPager(strings.NewReader(content))
}

func runPager(r io.Reader) error {
	root, err := oviewer.NewRoot(r)
	if err != nil {
		return err
	}

	// Leave the screen as it was on exit
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
