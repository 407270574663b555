package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"gucli/internal/adapter/menu"
	"gucli/internal/adapter/notify"
	"gucli/internal/infra/autostart"
	"gucli/internal/infra/config"
	"gucli/internal/infra/logger"
	"gucli/internal/infra/tracer"
	"gucli/internal/usecase/helpprobe"
	"gucli/internal/usecase/history"
	"gucli/internal/usecase/registry"
	"gucli/internal/usecase/runner"
	"gucli/internal/usecase/supervise"
)

func main() {
	// Handle help flag first
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "--help", "-h", "help":
			showUsage()
			return
		}
	}

	if len(os.Args) < 2 || strings.HasPrefix(os.Args[1], "-") {
		if err := runMenu(); err != nil {
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
			os.Exit(1)
		}
		return
	}

	switch os.Args[1] {
	case "run":
		if err := runOne(); err != nil {
			fmt.Fprintf(os.Stderr, "run: %v\n", err)
			os.Exit(1)
		}
	case "list":
		if err := runList(); err != nil {
			fmt.Fprintf(os.Stderr, "list: %v\n", err)
			os.Exit(1)
		}
	case "history":
		if err := runHistory(); err != nil {
			fmt.Fprintf(os.Stderr, "history: %v\n", err)
			os.Exit(1)
		}
	case "probe":
		if err := runProbe(); err != nil {
			fmt.Fprintf(os.Stderr, "probe: %v\n", err)
			os.Exit(1)
		}
	case "autostart":
		if err := runAutostart(); err != nil {
			fmt.Fprintf(os.Stderr, "autostart: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\nRun 'gucli --help' for usage information.\n", os.Args[1])
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println(`gucli - bind shell commands to menu entries, see results as notifications

USAGE:
    gucli [COMMAND] [FLAGS]

COMMANDS:
    run COMMAND     Run one configured command and print the result
    list            List configured commands
    history         Print the execution log, newest first
    probe COMMAND   Discover help text for a command
    autostart       Manage login autostart
                    Subcommands: enable, disable, status

    (no command) - Launch the interactive menu

FLAGS:
    -h, --help         Show this help message
    --config PATH      Specify config file path (default: ~/.config/gucli/commands.yaml)
    --reset-config     Rewrite the config file with defaults before starting

CONFIGURATION:
    Commands, shell, icons and notification policy live in the config file.
    A default file is written on first run.

EXAMPLES:
    gucli                        # Interactive menu
    gucli run uptime             # Run the configured 'uptime' entry
    gucli history                # Show recent executions
    gucli autostart enable       # Start gucli on login`)
}

// cliFlags holds optional CLI flags shared by every subcommand.
type cliFlags struct {
	ConfigPath  string
	ResetConfig bool
}

// parseFlags extracts --config and --reset-config from os.Args.
func parseFlags() cliFlags {
	var flags cliFlags
	for i := 1; i < len(os.Args); i++ {
		switch {
		case os.Args[i] == "--config" && i+1 < len(os.Args):
			flags.ConfigPath = os.Args[i+1]
			i++
		case strings.HasPrefix(os.Args[i], "--config="):
			flags.ConfigPath = strings.TrimPrefix(os.Args[i], "--config=")
		case os.Args[i] == "--reset-config":
			flags.ResetConfig = true
		}
	}
	return flags
}

// args returns the positional arguments after the subcommand, flags skipped.
func args() []string {
	var out []string
	for i := 2; i < len(os.Args); i++ {
		if strings.HasPrefix(os.Args[i], "--") {
			if os.Args[i] == "--config" {
				i++
			}
			continue
		}
		out = append(out, os.Args[i])
	}
	return out
}

// app bundles the wired components every subcommand needs.
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	registry *registry.Registry
	exec     *supervise.Supervisor
	history  *history.Writer
	runner   *runner.Runner
	cleanup  func()
}

func buildApp(ctx context.Context) (*app, error) {
	flags := parseFlags()

	cfgPath := flags.ConfigPath
	if cfgPath == "" {
		var err error
		cfgPath, err = config.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	created, err := config.Bootstrap(cfgPath, flags.ResetConfig)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if created {
		fmt.Fprintf(os.Stderr, "wrote default config to %s\n", cfgPath)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	log, logCloser, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	tracerShutdown, err := tracer.Setup(ctx, cfg.Tracer)
	if err != nil {
		logCloser()
		return nil, fmt.Errorf("tracer: %w", err)
	}

	reg, err := registry.New(cfg.Definitions())
	if err != nil {
		logCloser()
		tracerShutdown(ctx)
		return nil, fmt.Errorf("commands: %w", err)
	}

	histPath, err := cfg.HistoryPath()
	if err != nil {
		logCloser()
		tracerShutdown(ctx)
		return nil, fmt.Errorf("history: %w", err)
	}

	exec := supervise.New(log)
	hist := history.NewWriter(histPath, log)
	dispatcher := notify.NewDispatcher(pickBackend(cfg, log), log)
	run := runner.New(exec, dispatcher, hist, log)

	return &app{
		cfg:      cfg,
		log:      log,
		registry: reg,
		exec:     exec,
		history:  hist,
		runner:   run,
		cleanup: func() {
			tracerShutdown(ctx)
			logCloser()
		},
	}, nil
}

// pickBackend resolves the notification backend. "auto" prefers
// notify-send when it is on PATH and falls back to beeep.
func pickBackend(cfg *config.Config, log *slog.Logger) notify.Notifier {
	switch cfg.Notify.Backend {
	case "notify-send":
		return notify.NewNotifySendNotifier(cfg.Notify.AppName)
	case "beeep":
		return notify.NewBeeepNotifier(cfg.Notify.AppName)
	default:
		ns := notify.NewNotifySendNotifier(cfg.Notify.AppName)
		if ns.Available() {
			return ns
		}
		log.Debug("notify-send not found, using beeep backend")
		return notify.NewBeeepNotifier(cfg.Notify.AppName)
	}
}

// signalContext cancels on SIGINT/SIGTERM so in-flight work gets a
// best-effort termination.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func runMenu() error {
	ctx, stop := signalContext()
	defer stop()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.cleanup()

	model := menu.New(menu.Deps{
		Definitions: a.registry.List(),
		Invoker:     a.runner,
		History:     a.history,
		Logger:      a.log,
	})
	p := tea.NewProgram(model, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("menu: %w", err)
	}
	return nil
}

func runOne() error {
	rest := args()
	if len(rest) == 0 {
		return fmt.Errorf("usage: gucli run COMMAND")
	}

	ctx, stop := signalContext()
	defer stop()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.cleanup()

	def, err := a.registry.Lookup(strings.Join(rest, " "))
	if err != nil {
		return err
	}

	report := a.runner.Invoke(ctx, def)
	fmt.Println(report.Formatted.Body)
	if report.Result.IsError() {
		os.Exit(1)
	}
	return nil
}

func runList() error {
	ctx, stop := signalContext()
	defer stop()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.cleanup()

	for _, def := range a.registry.List() {
		line := def.Command
		if def.Icon != "" {
			line = def.Icon + "  " + line
		}
		if def.Shell != "" {
			line += fmt.Sprintf("  (shell: %s)", def.Shell)
		}
		if !def.Notify {
			line += "  (silent)"
		}
		fmt.Println(line)
	}
	return nil
}

func runHistory() error {
	ctx, stop := signalContext()
	defer stop()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.cleanup()

	entries, err := a.history.Entries()
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Printf("%s | %s | %s\n", e.Timestamp.Format("2006-01-02 15:04:05"), e.Command, e.Summary)
	}
	return nil
}

func runProbe() error {
	rest := args()
	if len(rest) == 0 {
		return fmt.Errorf("usage: gucli probe COMMAND")
	}

	ctx, stop := signalContext()
	defer stop()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.cleanup()

	probe := helpprobe.New(a.exec, a.log)
	text := probe.Discover(ctx, strings.Join(rest, " "))
	if text == "" {
		return fmt.Errorf("no help text found for %q", strings.Join(rest, " "))
	}
	fmt.Println(text)
	return nil
}

func runAutostart() error {
	sub := "status"
	if rest := args(); len(rest) > 0 {
		sub = rest[0]
	}

	switch sub {
	case "enable":
		if err := autostart.Enable(); err != nil {
			return err
		}
		fmt.Println("autostart enabled")
	case "disable":
		if err := autostart.Disable(); err != nil {
			return err
		}
		fmt.Println("autostart disabled")
	case "status":
		on, err := autostart.Enabled()
		if err != nil {
			return err
		}
		if on {
			fmt.Println("autostart: enabled")
		} else {
			fmt.Println("autostart: disabled")
		}
	default:
		return fmt.Errorf("unknown autostart subcommand: %s (expected enable, disable or status)", sub)
	}
	return nil
}
