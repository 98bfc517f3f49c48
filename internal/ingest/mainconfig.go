package ingest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	keyCfgFile     = "cfg_file"
	keyCfgDir      = "cfg_dir"
	keyCommandFile = "command_file"
)

// MainConfig holds the object sources and command file named by nagios.cfg.
type MainConfig struct {
	Path        string
	CfgFiles    []string
	CfgDirs     []string
	CommandFile string
}

// ScanMainConfig reads the Nagios main config file.
// Params: path to nagios.cfg.
// Returns: object file/dir lists in file order and the command file path.
func ScanMainConfig(path string) (MainConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		return MainConfig{}, fmt.Errorf("open main config: %w", err)
	}
	defer file.Close()

	cfg, err := parseMainConfig(file)
	if err != nil {
		return MainConfig{}, fmt.Errorf("read main config: %w", err)
	}
	cfg.Path = path
	return cfg, nil
}

func parseMainConfig(reader io.Reader) (MainConfig, error) {
	var cfg MainConfig
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case keyCfgFile:
			cfg.CfgFiles = append(cfg.CfgFiles, strings.TrimSpace(value))
		case keyCfgDir:
			cfg.CfgDirs = append(cfg.CfgDirs, strings.TrimSpace(value))
		case keyCommandFile:
			cfg.CommandFile = strings.TrimSpace(value)
		}
	}
	return cfg, scanner.Err()
}
