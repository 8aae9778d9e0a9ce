package main

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/wenyan"
	"github.com/fwojciec/wenyan/config"
	wenyanhttp "github.com/fwojciec/wenyan/http"
	wenyanzap "github.com/fwojciec/wenyan/zap"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// setup resolves settings and builds the logger before any command runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	path := a.opts.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return fmt.Errorf("locate config: %w", err)
		}
		path = p
	}
	a.cfgPath = path

	cfg, err := config.Load(path, a.loadOptions()...)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = a.opts.baseURL
	}
	if flags.Changed("token") {
		cfg.Token = a.opts.token
	}
	if flags.Changed("log-file") {
		cfg.LogFile = a.opts.logFile
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.opts.logLevel
	}
	if flags.Changed("idle-timeout") {
		d, err := time.ParseDuration(a.opts.idleTimeout)
		if err != nil {
			return fmt.Errorf("--idle-timeout: %w", err)
		}
		cfg.IdleTimeout = d
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := wenyanzap.New(wenyanzap.Options{
		File:          cfg.LogFile,
		Level:         cfg.LogLevel,
		Console:       a.opts.verbose && cmd != cmd.Root(), // the TUI owns the terminal
		ConsoleWriter: a.stderr,
	})
	if err != nil {
		return err
	}
	a.logger = logger.Named("wenyan")
	return nil
}

func (a *app) loadOptions() []config.Option {
	opts := []config.Option{config.WithEnvFile(a.opts.envFile)}
	if a.lookupEnv != nil {
		opts = append(opts, config.WithLookupEnv(a.lookupEnv))
	}
	return opts
}

// client builds a backend client that reports failures to n.
func (a *app) client(n wenyan.Notifier) *wenyanhttp.Client {
	return wenyanhttp.New(a.cfg.BaseURL,
		wenyanhttp.WithLogger(a.logger),
		wenyanhttp.WithNotifier(n),
		wenyanhttp.WithToken(a.cfg.Token),
		wenyanhttp.WithIdleTimeout(a.cfg.IdleTimeout),
	)
}

// saveToken stores token in the config file, leaving environment overrides
// out of it.
func (a *app) saveToken(token string) error {
	noEnv := func(string) (string, bool) { return "", false }
	cfg, err := config.Load(a.cfgPath, config.WithLookupEnv(noEnv))
	if err != nil {
		return err
	}
	cfg.Token = token
	return config.Save(a.cfgPath, cfg)
}

// width returns the terminal width of stdout, or 80 when it is not a
// terminal.
func (a *app) width() int {
	if f, ok := a.stdout.(*os.File); ok {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return 80
}

func interactive(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// stderrNotifier prints notices on their own line.
type stderrNotifier struct {
	mu    sync.Mutex
	w     io.Writer
	style lipgloss.Style
}

func newNotifier(w io.Writer) *stderrNotifier {
	return &stderrNotifier{
		w:     w,
		style: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

func (n *stderrNotifier) Notify(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.w, n.style.Render("! "+message))
}

// lockedWriter serializes chunks written by concurrent streams.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) WriteString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.w, s)
}
