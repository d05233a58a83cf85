package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"selectlist/internal/config"
	"selectlist/internal/domain"
	"selectlist/internal/eventbus"
	"selectlist/internal/fuzzy"
	"selectlist/internal/source"
	"selectlist/internal/tui"
)

// Exit statuses of the interactive picker
const (
	exitNoSelection = 1
	exitCancelled   = 130
)

// exitCode ends the process with a status but no error message
type exitCode int

func (c exitCode) Error() string {
	return fmt.Sprintf("exit status %d", int(c))
}

type rootOptions struct {
	configPath   string
	query        string
	maxResults   int
	scorer       string
	prompt       string
	emptyMessage string
	printQuery   bool
	logFile      string
	file         string
	walk         string
}

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		var code exitCode
		if errors.As(err, &code) {
			os.Exit(int(code))
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "selectlist",
		Short: "Pick one line from a list by typing a fuzzy query",
		Long: `selectlist reads candidate lines from --file, from standard input when it is
not a terminal, or else from a walk of the --walk directory, and lets you
narrow them down interactively. The confirmed line is printed to stdout.

Exit status is 0 when a line was picked, 1 when the list was confirmed with
nothing selected and 130 when the picker was cancelled.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPicker(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	flags.StringVarP(&opts.query, "query", "q", "", "initial query")
	flags.IntVar(&opts.maxResults, "max-results", 0, "maximum number of matches shown (0 = unlimited)")
	flags.StringVar(&opts.scorer, "scorer", "", "match scorer: subsequence, fzf or sahilm")
	flags.StringVar(&opts.prompt, "prompt", "", "input prompt")
	flags.StringVar(&opts.emptyMessage, "empty-message", "", "message shown when nothing matches")
	flags.BoolVar(&opts.printQuery, "print-query", false, "print the final query before the selection")
	flags.StringVar(&opts.logFile, "log-file", "", "write logs to this file")
	flags.StringVar(&opts.file, "file", "", "read items from this file, one per line")
	flags.StringVar(&opts.walk, "walk", ".", "directory to list when no other input is given")

	cmd.AddCommand(newFilterCmd())
	return cmd
}

func runPicker(cmd *cobra.Command, opts *rootOptions) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer cancel()

	bus := eventbus.New()
	defer bus.Close()

	cfg, closeLog, err := prepare(cmd, opts, bus)
	if err != nil {
		return err
	}
	defer closeLog()

	entries, err := loadEntries(ctx, source.NewService(bus), opts)
	if err != nil {
		return err
	}
	log.Printf("Loaded %d items", len(entries))

	model, err := tui.NewModel(tui.Options{
		Entries: entries,
		Config:  cfg,
		Query:   opts.query,
		Bus:     bus,
	})
	if err != nil {
		return err
	}

	programOpts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithOutput(os.Stderr),
		tea.WithContext(ctx),
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		// stdin carried the items; read keys from the terminal instead
		programOpts = append(programOpts, tea.WithInputTTY())
	}
	p := tea.NewProgram(model, programOpts...)
	model.SetProgram(p)

	log.Printf("Starting UI...")
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return exitCode(exitCancelled)
		}
		log.Printf("Error running program: %v", err)
		return fmt.Errorf("error running program: %w", err)
	}
	log.Printf("UI exited normally")

	return printResult(cmd.OutOrStdout(), model.Result(), opts.printQuery)
}

// prepare loads the config, applies flags and starts logging. The config file
// names the log file, so the load is announced on the bus only once the
// logger is subscribed.
func prepare(cmd *cobra.Command, opts *rootOptions, bus eventbus.EventBus) (*config.Config, func(), error) {
	cfg, path, err := loadConfig(opts.configPath)
	if err != nil {
		return nil, nil, err
	}
	applyFlags(cmd, opts, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	closeLog := setupLogging(cfg.LogFile)
	subscribeLogger(bus)
	bus.Publish(eventbus.ConfigLoadedEvent{Path: path, Scorer: cfg.Scorer})
	return cfg, closeLog, nil
}

// loadConfig reads the config without publishing; an explicit path must exist
func loadConfig(path string) (*config.Config, string, error) {
	svc := config.NewConfigServiceWithBus(nil, path)
	if path != "" {
		cfg, err := svc.LoadFromPath(path)
		return cfg, path, err
	}
	cfg, err := svc.Load()
	return cfg, svc.Path(), err
}

// applyFlags lets flags given on the command line override the config file
func applyFlags(cmd *cobra.Command, opts *rootOptions, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("max-results") {
		cfg.MaxResults = opts.maxResults
	}
	if flags.Changed("scorer") {
		cfg.Scorer = opts.scorer
	}
	if flags.Changed("prompt") {
		cfg.Prompt = opts.prompt
	}
	if flags.Changed("empty-message") {
		cfg.EmptyMessage = opts.emptyMessage
	}
	if flags.Changed("log-file") {
		cfg.LogFile = opts.logFile
	}
}

// setupLogging sends log output to path, or to selectlist.log in the user
// cache directory. Logs are discarded when no file can be opened so the
// terminal UI is not disturbed.
func setupLogging(path string) func() {
	if path == "" {
		cacheDir, err := os.UserCacheDir()
		if err != nil {
			log.SetOutput(io.Discard)
			return func() {}
		}
		path = filepath.Join(cacheDir, "selectlist", "selectlist.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		log.SetOutput(io.Discard)
		return func() {}
	}

	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.SetOutput(io.Discard)
		return func() {}
	}
	log.SetOutput(logFile)
	return func() { logFile.Close() }
}

func subscribeLogger(bus eventbus.EventBus) {
	for _, t := range []eventbus.EventType{
		eventbus.EventConfigLoaded,
		eventbus.EventItemsLoaded,
		eventbus.EventItemsReplaced,
		eventbus.EventQueryChanged,
		eventbus.EventSelectionConfirmed,
		eventbus.EventSessionCancelled,
		eventbus.EventFilterFailed,
		eventbus.EventError,
	} {
		bus.Subscribe(t, func(e eventbus.DomainEvent) {
			log.Printf("Event %s: %+v", e.Type(), e)
		})
	}
}

func loadEntries(ctx context.Context, svc *source.Service, opts *rootOptions) ([]domain.Entry, error) {
	switch {
	case opts.file != "":
		return svc.ReadFile(opts.file)
	case !term.IsTerminal(int(os.Stdin.Fd())):
		return svc.ReadLines("stdin", os.Stdin)
	default:
		return svc.Walk(ctx, opts.walk)
	}
}

func printResult(w io.Writer, result domain.Result, printQuery bool) error {
	if result.Cancelled {
		return exitCode(exitCancelled)
	}
	if printQuery {
		fmt.Fprintln(w, result.Query)
	}
	if !result.Selected {
		return exitCode(exitNoSelection)
	}
	fmt.Fprintln(w, result.Item)
	return nil
}

// scorerFor resolves a scorer name, reporting unknown names with the config
// sentinel so both entry points fail the same way
func scorerFor(name string) (fuzzy.Scorer, error) {
	scorer, err := fuzzy.ByName(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownScorer, name)
	}
	return scorer, nil
}
