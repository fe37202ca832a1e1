package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"makerbot/internal/eventbus"
	"makerbot/internal/ui"
)

const usageText = `Usage: makerbot [-config path] <command> [flags]

Commands:
  place   [-backend kind] [-tui] [-style s] [-layout l] <batch-file>
  plan    [-style s] <name>...      print the input plan from the initial state
  catalog [-style s] [-pager]       list the active style's objects
  watch   [-backend kind] <dir>     place every batch file dropped into dir
  reset                             clear the level
  shorten                           run the shorten-track macro
  erase   <x> <y>                   erase the object at a grid point
  config  init|show                 write defaults / print the effective config

Backends: exec (default), remote, dry-run
`

func main() {
	// Set up logging
	logFile, err := os.OpenFile("makerbot.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Could not open log file: %v", err)
	} else {
		log.SetOutput(logFile)
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Printf("Interrupted, stopping after the current record")
		cancel()
	}()

	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	if logFile != nil {
		logFile.Close()
	}
	os.Exit(code)
}

// run executes one command and returns the process exit status
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("makerbot", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { fmt.Fprint(stderr, usageText) }
	configPath := global.String("config", "", "config file")
	if err := global.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if global.NArg() == 0 {
		global.Usage()
		return 2
	}

	bus := eventbus.New()
	defer bus.Close()

	a := &app{
		stdout:     stdout,
		stderr:     stderr,
		styles:     ui.NewStyles(),
		bus:        bus,
		configPath: *configPath,
	}

	command, rest := global.Arg(0), global.Args()[1:]
	if command == "config" {
		return a.configCmd(rest)
	}
	if err := a.loadConfig(); err != nil {
		return a.fail(err)
	}

	switch command {
	case "place":
		return a.place(ctx, rest)
	case "plan":
		return a.plan(rest)
	case "catalog":
		return a.catalog(rest)
	case "watch":
		return a.watch(ctx, rest)
	case "reset":
		return a.macro(ctx, "reset", rest)
	case "shorten":
		return a.macro(ctx, "shorten", rest)
	case "erase":
		return a.erase(ctx, rest)
	case "help":
		global.Usage()
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", command)
		global.Usage()
		return 2
	}
}
