// Command wenyan explains words of classical Chinese sentences using a
// study backend.
//
// Usage:
//
//	wenyan                          interactive UI
//	wenyan query WORD SENTENCE      stream an explanation to stdout
//	wenyan freq WORD                corpus frequency and example sentences
//	wenyan search EXCERPT           locate the original text of an excerpt
//	wenyan extract PROMPT           run the model-test extraction
//	wenyan login | register | logout | whoami | balance
//
// Settings come from ~/.config/wenyan/config.yaml, a .env file, WENYAN_*
// environment variables and flags, in increasing precedence.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fwojciec/wenyan"
	"github.com/fwojciec/wenyan/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		// Handled errors were already reported as notices.
		if !wenyan.IsHandled(err) {
			fmt.Fprintf(os.Stderr, "wenyan: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string) error {
	// Handle OS signals for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := newApp(os.Stdin, os.Stdout, os.Stderr)
	root := newRootCmd(a)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// globalOptions are the flags shared by every command.
type globalOptions struct {
	configPath  string
	envFile     string
	baseURL     string
	token       string
	logFile     string
	logLevel    string
	verbose     bool
	idleTimeout string
}

// app carries the resolved settings and IO streams of one invocation.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	// lookupEnv replaces os.LookupEnv when set.
	lookupEnv func(string) (string, bool)

	opts    globalOptions
	cfgPath string
	cfg     config.Config
	logger  *zap.Logger
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{stdin: stdin, stdout: stdout, stderr: stderr, logger: zap.NewNop()}
}

func newRootCmd(a *app) *cobra.Command {
	var deep bool
	root := &cobra.Command{
		Use:               "wenyan",
		Short:             "Explain words of classical Chinese sentences",
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) { _ = a.logger.Sync() },
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("deep") {
				deep = a.cfg.DeepThinking
			}
			return a.runTUI(cmd.Context(), deep)
		},
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.opts.configPath, "config", "", "config file (default: user config dir/wenyan/config.yaml)")
	flags.StringVar(&a.opts.envFile, "env-file", ".env", "dotenv file with WENYAN_* variables")
	flags.StringVar(&a.opts.baseURL, "base-url", "", "backend address")
	flags.StringVar(&a.opts.token, "token", "", "session token")
	flags.StringVar(&a.opts.logFile, "log-file", "", "write JSON logs to this file")
	flags.StringVar(&a.opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.BoolVarP(&a.opts.verbose, "verbose", "v", false, "also log to stderr")
	flags.StringVar(&a.opts.idleTimeout, "idle-timeout", "", "abort streams silent for this long, e.g. 30s")
	root.Flags().BoolVarP(&deep, "deep", "d", false, "start with deep thinking enabled")

	root.AddCommand(
		newQueryCmd(a),
		newFreqCmd(a),
		newSearchCmd(a),
		newExtractCmd(a),
		newLoginCmd(a, "login", "Sign in and remember the session"),
		newLoginCmd(a, "register", "Create an account and sign in"),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newBalanceCmd(a),
	)
	return root
}
