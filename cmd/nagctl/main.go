package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/MakeNowJust/heredoc"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"nagctl/internal/app"
	"nagctl/internal/config"
	"nagctl/internal/fatal"
	"nagctl/internal/logging"
)

var usage = heredoc.Doc(`
	Nagios command line tool

	Usage: nagctl [OPTION...] COMMAND SELECTOR [PARAMETER]...

	Options:
	  -c, --config PATH        path to main Nagios config file
	  -D, --dry-run            dry-run mode - do not write any commands
	  -h, --host REGEXP        match host name by REGEXP regular expression
	  -s, --service REGEXP     match service name by REGEXP regular expression
	  -?, --help               print help message
	  -v, --verbose            increase verbosity
	      --settings FILE      nagctl settings file (TOML)
	      --settings-dir DIR   directory with nagctl settings fragments (*.toml)
	      --no-color           disable colored output

	COMMANDS:
	search SELECTOR
	  print objects matching criteria

	enable|disable SELECTOR notifications
	  enable/disable notifications for matching objects

	enable|disable SELECTOR checks
	  enable/disable active checks for matching objects

	schedule SELECTOR downtime DURATION COMMENT
	  schedule downtime lasting DURATION seconds with COMMENT comment

	schedule SELECTOR checks TIME
	reschedule SELECTOR checks TIME
	  schedule next active check in TIME seconds

	acknowledge SELECTOR problems COMMENT
	  acknowledge problem with object setting COMMENT comment

	SELECTORS:
	all
	  run command on hosts and services

	host
	  run command on hosts only

	service
	  run command on services only
`)

// main runs one nagctl invocation and exits with its status.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type cliFlags struct {
	mainConfig  string
	dryRun      bool
	host        string
	service     string
	verbose     int
	settings    string
	settingsDir string
	noColor     bool
}

// run parses arguments, executes the command and prints failures.
// Params: context, arguments without program name, output streams.
// Returns: process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var flags cliFlags
	errTone := color.New(color.FgRed)
	errTone.DisableColor()

	cmd := &cobra.Command{
		Use:           "nagctl [OPTION...] COMMAND SELECTOR [PARAMETER]...",
		Short:         "Nagios command line tool",
		Long:          usage,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, positional []string) error {
			useColor := false
			if file, ok := stderr.(*os.File); ok {
				useColor = logging.ShouldColor(file, flags.noColor)
			}
			if useColor {
				errTone.EnableColor()
			} else {
				errTone.DisableColor()
			}

			if len(positional) == 0 {
				_, _ = fmt.Fprint(stdout, usage)
				return fatal.New(fatal.KindUsage, "Command not specified, terminating")
			}

			source, err := config.FromCLI(flags.settings, flags.settingsDir)
			if err != nil {
				return fatal.Wrap(fatal.KindUsage, err, "")
			}

			opts := app.Options{
				Source:         source,
				MainConfig:     flags.mainConfig,
				DryRun:         flags.dryRun,
				HostPattern:    flags.host,
				ServicePattern: flags.service,
				Color:          useColor,
				Stdout:         stdout,
				Stderr:         stderr,
			}
			if cmd.Flags().Changed("verbose") || flags.dryRun {
				verbosity := 1 + flags.verbose
				if flags.dryRun {
					verbosity++
				}
				opts.Verbosity = &verbosity
			}

			service, err := app.NewService(opts)
			if err != nil {
				return err
			}
			defer service.Close()
			return service.Run(cmd.Context(), positional)
		},
	}

	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetHelpTemplate("{{.Long}}")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fatal.Wrap(fatal.KindUsage, err, "Fatal error parsing arguments")
	})

	fs := cmd.Flags()
	fs.SetInterspersed(false)
	fs.BoolP("help", "?", false, "print help message")
	fs.StringVarP(&flags.mainConfig, "config", "c", "", "path to main Nagios config file")
	fs.BoolVarP(&flags.dryRun, "dry-run", "D", false, "dry-run mode - do not write any commands")
	fs.StringVarP(&flags.host, "host", "h", "", "match host name by REGEXP regular expression")
	fs.StringVarP(&flags.service, "service", "s", "", "match service name by REGEXP regular expression")
	fs.CountVarP(&flags.verbose, "verbose", "v", "increase verbosity")
	fs.StringVar(&flags.settings, "settings", "", "nagctl settings file (TOML)")
	fs.StringVar(&flags.settingsDir, "settings-dir", "", "directory with nagctl settings fragments")
	fs.BoolVar(&flags.noColor, "no-color", false, "disable colored output")

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	_, _ = errTone.Fprintln(stderr, err.Error())
	return fatal.ExitCode(err)
}
