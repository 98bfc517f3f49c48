package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"nagctl/internal/clock"
	"nagctl/internal/config"
	"nagctl/internal/domain"
	"nagctl/internal/engine"
	"nagctl/internal/extcmd"
	"nagctl/internal/fatal"
	"nagctl/internal/ingest"
	"nagctl/internal/logging"
	"nagctl/internal/templatefmt"
)

// Options carries command-line state into one run.
// Params: settings source, flag overrides, output streams, clock.
// Returns: service construction input.
type Options struct {
	Source         config.ConfigSource
	MainConfig     string
	DryRun         bool
	HostPattern    string
	ServicePattern string
	// Verbosity overrides the console level when set.
	Verbosity *int
	Color     bool
	Stdout    io.Writer
	Stderr    io.Writer
	Clock     clock.Clock
}

// Service runs one nagctl invocation: resolve, load, match, emit.
type Service struct {
	cfg      config.Config
	opts     Options
	logger   *slog.Logger
	closeLog func()
	clock    clock.Clock
	filter   engine.Filter
	search   searchTemplates
}

// NewService loads settings, builds the logger and compiles name filters.
// Params: run options.
// Returns: initialized service or classified setup error.
func NewService(opts Options) (*Service, error) {
	cfg, err := config.LoadSnapshot(opts.Source)
	if err != nil {
		return nil, fatal.Wrap(fatal.KindConfig, err, "Cannot load settings")
	}
	if opts.MainConfig != "" {
		cfg.Nagios.MainConfig = opts.MainConfig
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}

	filter, err := compileFilter(opts.HostPattern, opts.ServicePattern)
	if err != nil {
		return nil, err
	}
	search, err := compileSearchTemplates(cfg.Search)
	if err != nil {
		return nil, fatal.Wrap(fatal.KindConfig, err, "Cannot parse search templates")
	}

	logger, closeLog, err := logging.New(cfg.Log, logging.Options{
		Console:   opts.Stderr,
		Color:     opts.Color,
		Verbosity: opts.Verbosity,
	})
	if err != nil {
		return nil, fatal.Wrap(fatal.KindConfig, err, "Cannot set up logging")
	}

	return &Service{
		cfg:      cfg,
		opts:     opts,
		logger:   logger,
		closeLog: closeLog,
		clock:    opts.Clock,
		filter:   filter,
		search:   search,
	}, nil
}

// Close releases log sinks.
func (s *Service) Close() {
	if s.closeLog != nil {
		s.closeLog()
	}
}

// Run executes one command line: COMMAND SELECTOR [PARAMETER]...
// Params: context and positional arguments.
// Returns: nil or a classified failure.
func (s *Service) Run(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fatal.New(fatal.KindUsage, "Command not specified, terminating")
	}

	selector := ""
	tokens := []string{args[0]}
	if len(args) > 1 {
		selector = args[1]
		tokens = append(tokens, args[2:]...)
	}

	scope, err := resolveScope(selector)
	if err != nil {
		return err
	}
	words, handle, err := resolveCommand(tokens, scope)
	if err != nil {
		return err
	}

	generate, err := handle(invocation{
		words:  words,
		scope:  scope,
		issued: s.clock.Now(),
		author: s.cfg.Nagios.Author,
		out:    s.opts.Stdout,
		search: s.search,
	})
	if err != nil {
		return err
	}

	mainCfg, reg, err := s.load(ctx)
	if err != nil {
		return err
	}

	assoc, err := engine.Match(reg, s.filter)
	if err != nil {
		if errors.Is(err, domain.ErrCyclicTemplate) {
			return fatal.Wrap(fatal.KindConfig, err, "Cannot resolve templates")
		}
		return fmt.Errorf("match objects: %w", err)
	}
	s.logger.Debug("objects matched", "hosts", assoc.Len(), "scope", string(scope))

	commands, err := generate(assoc)
	if err != nil {
		return err
	}
	return s.write(ctx, mainCfg, commands)
}

// load scans nagios.cfg and builds the registry.
func (s *Service) load(ctx context.Context) (ingest.MainConfig, *domain.Registry, error) {
	started := time.Now()
	s.logger.Log(ctx, logging.LevelTrace, "reading main config", "path", s.cfg.Nagios.MainConfig)
	mainCfg, err := ingest.ScanMainConfig(s.cfg.Nagios.MainConfig)
	if err != nil {
		return ingest.MainConfig{}, nil, fatal.Wrap(fatal.KindConfig, err, "Cannot read main config file")
	}

	reg, err := ingest.NewLoader(s.logger, 0).Load(ctx, mainCfg)
	if err != nil {
		return ingest.MainConfig{}, nil, fatal.Wrap(fatal.KindIO, err, "Cannot load object config")
	}
	s.logger.Debug("objects loaded", "elapsed", templatefmt.FormatDuration(time.Since(started)))
	return mainCfg, reg, nil
}

// write hands commands to the file or dry-run sink.
func (s *Service) write(ctx context.Context, mainCfg ingest.MainConfig, commands []string) error {
	if len(commands) == 0 {
		return nil
	}

	var sink extcmd.Sink
	if s.opts.DryRun {
		sink = extcmd.NewDryRunSink(s.logger)
	} else {
		path := s.cfg.Nagios.CommandFile
		if path == "" {
			path = mainCfg.CommandFile
		}
		if path == "" {
			return fatal.New(fatal.KindConfig, "Cannot write to external commands file: command_file is not set in %s", mainCfg.Path)
		}
		sink = extcmd.NewFileSink(path, s.clock, s.logger)
	}

	if err := sink.Write(ctx, commands); err != nil {
		return fatal.Wrap(fatal.KindIO, err, "Cannot write to external commands file")
	}
	return nil
}

func compileFilter(hostPattern, servicePattern string) (engine.Filter, error) {
	var filter engine.Filter
	if hostPattern != "" {
		pattern, err := domain.CompileNamePattern(hostPattern)
		if err != nil {
			return engine.Filter{}, fatal.Wrap(fatal.KindUsage, err, "Invalid host pattern")
		}
		filter.Host = pattern
	}
	if servicePattern != "" {
		pattern, err := domain.CompileNamePattern(servicePattern)
		if err != nil {
			return engine.Filter{}, fatal.Wrap(fatal.KindUsage, err, "Invalid service pattern")
		}
		filter.Service = pattern
	}
	return filter, nil
}

func compileSearchTemplates(cfg config.SearchConfig) (searchTemplates, error) {
	var (
		out searchTemplates
		err error
	)
	if out.all, err = templatefmt.ParseSearchTemplate("search.all_format", cfg.AllFormat); err != nil {
		return searchTemplates{}, err
	}
	if out.host, err = templatefmt.ParseSearchTemplate("search.host_format", cfg.HostFormat); err != nil {
		return searchTemplates{}, err
	}
	if out.service, err = templatefmt.ParseSearchTemplate("search.service_format", cfg.ServiceFormat); err != nil {
		return searchTemplates{}, err
	}
	return out, nil
}
