package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"nagctl/internal/domain"
	"nagctl/internal/logging"
)

const objectFileExt = ".cfg"

// RegistrySink registers decoded blocks into a domain registry.
type RegistrySink struct {
	Registry *domain.Registry
}

// Push registers one block by kind; hostgroups without a name are skipped.
// Params: decoded block.
// Returns: always nil.
func (s RegistrySink) Push(block Block) error {
	switch block.Kind {
	case KindHost:
		s.Registry.AddHost(block.Params)
	case KindService:
		s.Registry.AddService(block.Params)
	case KindHostgroup:
		s.Registry.AddHostgroup(block.Params)
	}
	return nil
}

// Loader builds a registry from the object files named by nagios.cfg.
type Loader struct {
	logger  *slog.Logger
	workers int
}

// NewLoader creates an object loader.
// Params: logger for trace/warn output; workers <= 0 means GOMAXPROCS.
// Returns: loader.
func NewLoader(logger *slog.Logger, workers int) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Loader{logger: logger, workers: workers}
}

// Load decodes every object file and registers blocks in file order.
// Params: context and scanned main config.
// Returns: populated registry or context error.
func (l *Loader) Load(ctx context.Context, cfg MainConfig) (*domain.Registry, error) {
	files := l.ObjectFiles(cfg)

	decoded := make([][]Block, len(files))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(l.workers)
	for i, path := range files {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			blocks, err := l.decodeFile(groupCtx, path)
			if err != nil {
				l.logger.Warn("cannot read file", "path", path, "error", err)
				return nil
			}
			decoded[i] = blocks
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	reg := domain.NewRegistry()
	sink := RegistrySink{Registry: reg}
	for i, blocks := range decoded {
		if err := pushBlocks(sink, blocks); err != nil {
			return nil, fmt.Errorf("register %s: %w", files[i], err)
		}
	}
	l.logger.Debug("objects loaded",
		"files", len(files),
		"hosts", len(reg.Hosts),
		"services", len(reg.Services),
		"hostgroups", len(reg.Hostgroups),
	)
	return reg, nil
}

// ObjectFiles lists cfg_dir matches (recursive, lexical) followed by cfg_file entries.
// Params: scanned main config.
// Returns: ordered object file paths.
func (l *Loader) ObjectFiles(cfg MainConfig) []string {
	var files []string
	for _, dir := range cfg.CfgDirs {
		files = append(files, l.searchDir(dir)...)
	}
	return append(files, cfg.CfgFiles...)
}

// searchDir walks dir for non-hidden regular *.cfg files, following symlinks.
// Params: directory path; missing or non-directory paths yield nothing.
// Returns: matching paths in walk order, reported under dir.
func (l *Loader) searchDir(dir string) []string {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil
	}
	var files []string
	l.walkDir(dir, make(map[string]struct{}), &files)
	return files
}

// walkDir collects object files under dir. Every real directory is walked once,
// so symlinked subdirectories are followed without looping.
func (l *Loader) walkDir(dir string, visited map[string]struct{}, files *[]string) {
	root, err := filepath.EvalSymlinks(dir)
	if err != nil {
		l.logger.Warn("cannot search directory", "path", dir, "error", err)
		return
	}
	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			l.logger.Warn("cannot search directory", "path", path, "error", err)
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		shown := dir
		if rel, relErr := filepath.Rel(root, path); relErr == nil && rel != "." {
			shown = filepath.Join(dir, rel)
		}
		if entry.IsDir() {
			if _, seen := visited[path]; seen {
				return fs.SkipDir
			}
			visited[path] = struct{}{}
			l.logger.Log(context.Background(), logging.LevelTrace, "searching for files", "dir", shown)
			return nil
		}
		if entry.Type()&fs.ModeSymlink != 0 {
			if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
				l.walkDir(shown, visited, files)
				return nil
			}
		}
		if isObjectFile(path, entry) {
			*files = append(*files, shown)
		}
		return nil
	})
	if err != nil && !errors.Is(err, fs.SkipDir) {
		l.logger.Warn("cannot search directory", "path", dir, "error", err)
	}
}

func isObjectFile(path string, entry fs.DirEntry) bool {
	name := entry.Name()
	if strings.HasPrefix(name, ".") || filepath.Ext(name) != objectFileExt {
		return false
	}
	if entry.Type().IsRegular() {
		return true
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func (l *Loader) decodeFile(ctx context.Context, path string) ([]Block, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	l.logger.Log(ctx, logging.LevelTrace, "reading file", "path", path)
	return DecodeObjects(file)
}
