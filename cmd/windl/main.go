package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ligustah/windl/internal/config"
	"github.com/ligustah/windl/internal/progress"
	"github.com/ligustah/windl/internal/terminal"
)

// Exit codes
const (
	ExitSuccess     = 0
	ExitFailure     = 1
	ExitInterrupted = 130
)

// Version is printed by --version and sent as the default User-Agent.
const Version = "WinDL/1.0"

func main() {
	a := &app{
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		now:     time.Now,
		profile: terminal.Detect(os.LookupEnv, os.Stderr),
	}
	os.Exit(a.run(os.Args[1:]))
}

// app holds the process streams so tests can run the CLI in-process.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	// dir is where local files are created. Empty means the working
	// directory.
	dir     string
	now     func() time.Time
	profile terminal.Profile
}

// exitError carries an exit code out of cobra's RunE.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// flags are the command-line options. Zero values mean "not set" so they
// can be merged over the configuration file and environment.
type flags struct {
	configPath     string
	bucket         string
	display        string
	bufferSize     string
	interval       time.Duration
	connectTimeout time.Duration
	assumeYes      bool
	verbose        bool
}

func (a *app) run(args []string) int {
	cmd := a.newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(a.stdin)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	fmt.Fprintf(a.stderr, "Error: %v\n", err)
	printUsage(a.stderr)
	return ExitFailure
}

func (a *app) newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "windl [flags] URL",
		Short: "Download a file over HTTP, HTTPS or FTP",
		Long: `windl downloads a single file over HTTP, HTTPS or FTP into the current
directory, showing the transferred size, throughput and remaining time while
it runs.

The file name is taken from the last path segment of the URL. When the URL
has none, WinDL_<unix time> is used. An existing file is only replaced after
confirmation, unless --yes is given.

With --bucket the file is written to a gocloud bucket (file://, mem://, s3://
or gs://) instead of the current directory.

Configuration is read from ~/.windl.yaml (or --config), then WINDL_*
environment variables, then flags.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				printUsage(a.stderr)
				return &exitError{code: ExitFailure}
			}

			cfg, err := loadConfig(&f)
			if err != nil {
				fmt.Fprintf(a.stderr, "%s: %v\n", Version, err)
				return &exitError{code: ExitFailure}
			}

			return a.download(cfg, args[0])
		},
	}
	cmd.SetVersionTemplate("{{.Version}}\n")

	fs := cmd.Flags()
	fs.StringVar(&f.configPath, "config", "", "config file (default is $HOME/"+config.FileName+")")
	fs.StringVar(&f.bucket, "bucket", "", "write to this gocloud bucket URL instead of the current directory")
	fs.StringVar(&f.display, "display", "", `progress display, "line" or "bar" (default "line")`)
	fs.StringVar(&f.bufferSize, "buffer-size", "", `read buffer size, e.g. "64KiB" (default "16KiB")`)
	fs.DurationVar(&f.interval, "interval", 0, "minimum time between progress updates (default 250ms)")
	fs.DurationVar(&f.connectTimeout, "connect-timeout", 0, "connection establishment timeout (default 30s)")
	fs.BoolVarP(&f.assumeYes, "yes", "y", false, "overwrite an existing file without asking")
	fs.BoolVar(&f.verbose, "verbose", false, "log diagnostics to stderr")

	return cmd
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: windl [flags] URL")
}

// loadConfig applies defaults, the configuration file, the environment and
// flags, in that order.
func loadConfig(f *flags) (config.Config, error) {
	cfg := config.Default()

	path := f.configPath
	if path == "" {
		if p := config.DefaultPath(); p != "" {
			if _, err := os.Stat(p); err == nil {
				path = p
			}
		}
	}
	if path != "" {
		var err error
		if cfg, err = config.LoadFromFile(path); err != nil {
			return config.Config{}, err
		}
	}

	if err := cfg.LoadFromEnv(); err != nil {
		return config.Config{}, err
	}

	override := config.Config{
		Bucket:         f.bucket,
		Display:        f.display,
		UpdateInterval: f.interval,
		ConnectTimeout: f.connectTimeout,
		AssumeYes:      f.assumeYes,
	}
	if f.bufferSize != "" {
		size, err := progress.ParseBytes(f.bufferSize)
		if err != nil {
			return config.Config{}, fmt.Errorf("parse --buffer-size: %w", err)
		}
		if size == 0 {
			return config.Config{}, errors.New("config: buffer_size must be positive")
		}
		override.BufferSize = size
	}
	if f.verbose {
		override.LogLevel = "debug"
	}
	cfg = cfg.Merge(override)

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
