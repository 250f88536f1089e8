package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/TFMV/locscan/internal/output"
	"github.com/TFMV/locscan/internal/walk"
)

var version = "0.1.0"

// rootOptions carries per-invocation state shared by the command's hooks.
type rootOptions struct {
	cfgFile  string
	out      io.Writer
	v        *viper.Viper
	warnings []string
}

// NewRootCmd builds the locscan command writing its report to out.
func NewRootCmd(out io.Writer) *cobra.Command {
	cmd, _ := newRootCmd(out)
	return cmd
}

func newRootCmd(out io.Writer) (*cobra.Command, *rootOptions) {
	o := &rootOptions{out: out, v: viper.New()}

	cmd := &cobra.Command{
		Use:   "locscan [path]",
		Short: "Count lines, words and characters across a directory tree",
		Long: `locscan walks a directory tree, selects files whose root-relative path
matches the include/exclude regular expressions, and reports how many lines
contain code, along with optional word, character, byte and waste-rate totals.

Filters are full-match regular expressions applied to forward-slash paths
relative to the start path. Exclusions win over inclusions.

Examples:
  locscan
  locscan ./src -i '.*\.go' -e 'vendor/.*'
  locscan -d 2 -print_everything -print_files /path/to/repo`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, args)
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(out)

	flags := cmd.Flags()
	flags.StringVar(&o.cfgFile, "config", "", "Config file (default is ./.locscan.yaml or $HOME/.locscan.yaml)")
	flags.StringArrayP("include", "i", nil, "Add an include filter regex (repeatable)")
	flags.StringArrayP("exclude", "e", nil, "Add an exclude filter regex (repeatable, wins over include)")
	flags.BoolP("follow-links", "l", false, "Follow symbolic links")
	flags.IntP("depth", "d", 0, "Maximum folder depth (0 for unlimited)")
	flags.Bool("print_num_chars", false, "Print the number of characters")
	flags.Bool("print_num_words", false, "Print the number of words")
	flags.Bool("print_num_bytes", false, "Print the number of bytes")
	flags.Bool("print_waste_rate", false, "Print the waste rate (share of whitespace bytes) in percent")
	flags.Bool("print_everything", false, "Print all metrics")
	flags.Bool("print_files", false, "Print a line for each file")
	flags.Bool("gitignore", false, "Skip paths ignored by the start path's .gitignore")
	flags.Bool("no-color", false, "Disable colored output")
	flags.BoolP("verbose", "v", false, "Enable debug logging")

	// Registered eagerly so legacy argument rewriting can see them.
	cmd.InitDefaultHelpFlag()
	cmd.InitDefaultVersionFlag()

	// Bind flags to viper
	for _, name := range []string{
		"include", "exclude", "follow-links", "depth",
		"print_num_chars", "print_num_words", "print_num_bytes", "print_waste_rate",
		"print_everything", "print_files", "gitignore", "no-color", "verbose",
	} {
		o.v.BindPFlag(name, flags.Lookup(name))
	}

	return cmd, o
}

// Execute runs locscan with the process arguments. SIGINT and SIGTERM cancel
// the scan.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return ExecuteContext(ctx, os.Args[1:], os.Stdout)
}

// ExecuteContext runs locscan with args, writing to out. The returned error
// carries the exit status; see ExitCode.
func ExecuteContext(ctx context.Context, args []string, out io.Writer) error {
	cmd, o := newRootCmd(out)
	args, o.warnings = normalizeArgs(args, cmd.Flags())
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	// Usage and flag errors from cobra itself.
	fmt.Fprintf(out, "Error: %v\n", err)
	return &ExitError{Code: ExitFailure, Err: err}
}

// initConfig reads in config file and ENV variables if set.
func (o *rootOptions) initConfig() error {
	if o.cfgFile != "" {
		// Use config file from the flag.
		o.v.SetConfigFile(o.cfgFile)
	} else {
		o.v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			o.v.AddConfigPath(home)
		}
		o.v.SetConfigType("yaml")
		o.v.SetConfigName(".locscan")
	}

	o.v.SetEnvPrefix("LOCSCAN")
	o.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	o.v.AutomaticEnv()

	if err := o.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if o.cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

func (o *rootOptions) run(cmd *cobra.Command, args []string) error {
	if err := o.initConfig(); err != nil {
		fmt.Fprintf(o.out, "Error: %v\n", err)
		return &ExitError{Code: ExitFailure, Err: err}
	}

	cfg := o.config(cmd, args)

	colorize := false
	if f, ok := o.out.(*os.File); ok {
		colorize = output.ColorEnabled(f, o.v.GetBool("no-color"))
	}
	presenter := output.NewConsole(o.out, cfg.Metrics, colorize)
	defer presenter.Close()

	for _, msg := range o.warnings {
		presenter.Warn(msg)
	}

	logger := walk.NewLogger(walk.LevelFor(o.v.GetBool("verbose")))
	defer logger.Sync()

	if used := o.v.ConfigFileUsed(); used != "" {
		logger.Debug("using config file " + used)
	}

	return Run(cmd.Context(), cfg, presenter, logger)
}

// config merges flags, environment and config file into a Config.
func (o *rootOptions) config(cmd *cobra.Command, args []string) Config {
	cfg := Config{
		Root:           ".",
		Include:        o.stringList(cmd, "include"),
		Exclude:        o.stringList(cmd, "exclude"),
		FollowSymlinks: o.v.GetBool("follow-links"),
		MaxDepth:       o.v.GetInt("depth"),
		GitIgnore:      o.v.GetBool("gitignore"),
		PrintFiles:     o.v.GetBool("print_files"),
		Metrics: output.Metrics{
			Chars:     o.v.GetBool("print_num_chars"),
			Words:     o.v.GetBool("print_num_words"),
			Bytes:     o.v.GetBool("print_num_bytes"),
			WasteRate: o.v.GetBool("print_waste_rate"),
		},
	}
	if o.v.GetBool("print_everything") {
		cfg.Metrics = output.AllMetrics()
	}
	if len(args) > 0 && args[0] != "" {
		cfg.Root = args[0]
	}
	return cfg
}

// stringList reads a repeatable regex flag. Values given on the command line
// are taken verbatim; otherwise the config file or environment supplies them.
func (o *rootOptions) stringList(cmd *cobra.Command, name string) []string {
	if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
		values, _ := cmd.Flags().GetStringArray(name)
		return values
	}
	return o.v.GetStringSlice(name)
}
