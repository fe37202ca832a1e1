package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"makerbot/internal/batch"
	"makerbot/internal/config"
	"makerbot/internal/domain"
	"makerbot/internal/editor"
	"makerbot/internal/planner"
	"makerbot/internal/selection"
	"makerbot/internal/ui"
	"makerbot/internal/watch"
)

func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

// parse returns the exit status to use when parsing failed
func parse(fs *flag.FlagSet, args []string) (int, bool) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0, false
		}
		return 2, false
	}
	return 0, true
}

func (a *app) place(ctx context.Context, args []string) int {
	fs := a.newFlagSet("place")
	sf := a.addSessionFlags(fs)
	tui := fs.Bool("tui", false, "show a live progress view")
	if code, ok := parse(fs, args); !ok {
		return code
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(a.stderr, "usage: makerbot place [flags] <batch-file>")
		return 2
	}
	path := fs.Arg(0)

	records, err := batch.Load(path)
	if err != nil {
		return a.fail(err)
	}

	// dry runs print each input unless the progress view owns the terminal
	echo := a.stdout
	if *tui {
		echo = nil
	}
	s, err := a.openSession(ctx, sf, echo)
	if err != nil {
		return a.fail(err)
	}
	defer s.Close()

	var summary domain.BatchSummary
	if *tui {
		summary = a.runWithProgress(ctx, s.editor, path, records)
	} else {
		summary = s.editor.RunBatch(ctx, path, records)
		fmt.Fprint(a.stdout, ui.RenderSummary(summary, a.styles))
	}
	fmt.Fprint(a.stderr, ui.RenderFailures(summary, a.styles))

	if summary.Err != nil {
		return 1
	}
	return 0
}

// runWithProgress runs the batch on its own goroutine while a bubbletea
// program renders bus events
func (a *app) runWithProgress(ctx context.Context, ed *editor.Editor, path string, records []domain.Placement) domain.BatchSummary {
	batchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := ui.NewModel(path, len(records), cancel)
	p := tea.NewProgram(model, tea.WithOutput(a.stdout), tea.WithContext(ctx))
	unsubscribe := ui.Bridge(a.bus, p)
	defer unsubscribe()

	done := make(chan domain.BatchSummary, 1)
	go func() {
		done <- ed.RunBatch(batchCtx, path, records)
	}()

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		log.Printf("Progress view failed: %v", err)
	}
	cancel()
	summary := <-done

	if model.Summary() == nil {
		// the view exited early, so print the outcome ourselves
		fmt.Fprint(a.stdout, ui.RenderSummary(summary, a.styles))
	}
	return summary
}

func (a *app) plan(args []string) int {
	fs := a.newFlagSet("plan")
	style := fs.String("style", a.cfg.Style, "game style")
	if code, ok := parse(fs, args); !ok {
		return code
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(a.stderr, "usage: makerbot plan [-style s] <name>...")
		return 2
	}

	cat, err := a.registry.Build(*style)
	if err != nil {
		return a.fail(err)
	}

	code := 0
	state := selection.NewTracker(cat.GroupCount()).Snapshot()
	last := ""
	for _, name := range fs.Args() {
		entry, err := cat.Lookup(name)
		if err != nil {
			fmt.Fprint(a.stderr, ui.RenderError(err, a.styles))
			code = 1
			continue
		}
		if name == last {
			fmt.Fprintf(a.stdout, "%s\n", a.styles.Dim.Render(name+"  still selected (0 inputs)"))
			continue
		}
		inputs := planner.Plan(entry, state)
		fmt.Fprint(a.stdout, ui.RenderPlan(entry, inputs, a.styles))
		state = planner.Replay(state, inputs)
		last = name
	}
	return code
}

func (a *app) catalog(args []string) int {
	fs := a.newFlagSet("catalog")
	style := fs.String("style", a.cfg.Style, "game style")
	pager := fs.Bool("pager", false, "page the listing")
	if code, ok := parse(fs, args); !ok {
		return code
	}

	cat, err := a.registry.Build(*style)
	if err != nil {
		return a.fail(err)
	}

	content := ui.RenderCatalog(cat, a.styles)
	if *pager {
		if err := ui.ShowInPager(content); err != nil {
			return a.fail(err)
		}
		return 0
	}
	fmt.Fprint(a.stdout, content)
	return 0
}

func (a *app) watch(ctx context.Context, args []string) int {
	fs := a.newFlagSet("watch")
	sf := a.addSessionFlags(fs)
	settle := fs.Duration("settle", watch.DefaultSettle, "quiet time before a file is placed")
	if code, ok := parse(fs, args); !ok {
		return code
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(a.stderr, "usage: makerbot watch [flags] <dir>")
		return 2
	}

	inbox, err := watch.NewInbox(fs.Arg(0), a.bus, *settle)
	if err != nil {
		return a.fail(err)
	}

	s, err := a.openSession(ctx, sf, a.stdout)
	if err != nil {
		return a.fail(err)
	}
	defer s.Close()

	go func() {
		if err := inbox.Run(ctx); err != nil {
			log.Printf("Inbox stopped: %v", err)
		}
	}()

	fmt.Fprintf(a.stdout, "%s\n", a.styles.Dim.Render("Watching "+fs.Arg(0)+" for batch files"))
	for path := range inbox.Batches() {
		records, err := batch.Load(path)
		if err != nil {
			fmt.Fprint(a.stderr, ui.RenderError(err, a.styles))
		} else {
			summary := s.editor.RunBatch(ctx, path, records)
			fmt.Fprint(a.stdout, ui.RenderSummary(summary, a.styles))
			fmt.Fprint(a.stderr, ui.RenderFailures(summary, a.styles))
			// unfinished batches stay in the inbox for the next run
			if summary.Err != nil {
				return 1
			}
			if summary.Cancelled {
				log.Printf("Inbox: leaving %s unmarked, %d records not attempted",
					path, summary.Total-summary.Attempted())
				return 0
			}
		}
		if _, err := watch.MarkDone(path); err != nil {
			log.Printf("Inbox: %v", err)
		}
	}
	return 0
}

func (a *app) macro(ctx context.Context, name string, args []string) int {
	fs := a.newFlagSet(name)
	sf := a.addSessionFlags(fs)
	if code, ok := parse(fs, args); !ok {
		return code
	}

	s, err := a.openSession(ctx, sf, a.stdout)
	if err != nil {
		return a.fail(err)
	}
	defer s.Close()

	switch name {
	case "reset":
		err = s.editor.ResetLevel(ctx)
	case "shorten":
		err = s.editor.ShortenTrack(ctx)
	}
	if err != nil {
		return a.fail(err)
	}
	return 0
}

func (a *app) erase(ctx context.Context, args []string) int {
	fs := a.newFlagSet("erase")
	sf := a.addSessionFlags(fs)
	if code, ok := parse(fs, args); !ok {
		return code
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(a.stderr, "usage: makerbot erase [flags] <x> <y>")
		return 2
	}
	x, errX := strconv.Atoi(fs.Arg(0))
	y, errY := strconv.Atoi(fs.Arg(1))
	if err := errors.Join(errX, errY); err != nil {
		return a.fail(fmt.Errorf("grid point: %w", err))
	}

	s, err := a.openSession(ctx, sf, a.stdout)
	if err != nil {
		return a.fail(err)
	}
	defer s.Close()

	if err := s.editor.Erase(ctx, domain.GridPoint{X: x, Y: y}); err != nil {
		return a.fail(err)
	}
	return 0
}

func (a *app) configCmd(args []string) int {
	fs := a.newFlagSet("config")
	force := fs.Bool("force", false, "overwrite an existing file")
	if code, ok := parse(fs, args); !ok {
		return code
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(a.stderr, "usage: makerbot config [-force] init|show")
		return 2
	}

	svc := config.NewConfigServiceWithBus(a.configPath, a.bus)
	switch fs.Arg(0) {
	case "init":
		if _, err := os.Stat(svc.Path()); err == nil && !*force {
			return a.fail(fmt.Errorf("%s already exists (use -force to overwrite)", svc.Path()))
		}
		if err := svc.Save(config.DefaultConfig()); err != nil {
			return a.fail(err)
		}
		fmt.Fprintf(a.stdout, "Wrote %s\n", svc.Path())
		return 0

	case "show":
		cfg, err := svc.Load()
		if err != nil {
			return a.fail(err)
		}
		data, err := config.Encode(cfg)
		if err != nil {
			return a.fail(err)
		}
		fmt.Fprintf(a.stdout, "# %s\n%s", svc.Path(), data)
		return 0

	default:
		fmt.Fprintf(a.stderr, "unknown config action %q\n", fs.Arg(0))
		return 2
	}
}
