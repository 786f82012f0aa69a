package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the application paths
// This is the single source of truth for every file the tool reads or writes
type Paths struct {
	BaseDir    string
	DataDir    string
	ChartsDir  string
	ExportsDir string
	LogsDir    string
}

// executableDir returns the directory holding the running binary
func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %v", err)
	}

	// Resolve symlinks to get the actual executable location
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}
	return filepath.Dir(exe), nil
}

// ResolvePaths turns the configured directories into absolute paths.
// Relative directories hang off BaseDir; an empty BaseDir falls back to the
// executable directory so the binary behaves the same from any working dir.
func ResolvePaths(pc PathsConfig) (*Paths, error) {
	base := pc.BaseDir
	if base == "" {
		dir, err := executableDir()
		if err != nil {
			return nil, err
		}
		base = dir
	}
	base, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory %s: %v", pc.BaseDir, err)
	}

	resolve := func(dir, fallback string) string {
		if dir == "" {
			dir = fallback
		}
		if filepath.IsAbs(dir) {
			return filepath.Clean(dir)
		}
		return filepath.Join(base, dir)
	}

	return &Paths{
		BaseDir:    base,
		DataDir:    resolve(pc.DataDir, DefaultDataDir),
		ChartsDir:  resolve(pc.ChartsDir, DefaultChartsDir),
		ExportsDir: resolve(pc.ExportsDir, DefaultExportsDir),
		LogsDir:    resolve(pc.LogsDir, DefaultLogsDir),
	}, nil
}

// EnsureDirectories creates the output directories if they don't exist.
// The data directory is input only and is left alone.
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.ChartsDir,
		p.ExportsDir,
		p.LogsDir,
	}

	logger := slog.Default()

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
		logger.Debug("Ensured directory exists",
			slog.String("directory", dir))
	}

	return nil
}

// GetDataPath returns the full path for an input file
func (p *Paths) GetDataPath(filename string) string {
	return filepath.Join(p.DataDir, filename)
}

// GetChartPath returns the full path for a rendered chart
func (p *Paths) GetChartPath(filename string) string {
	return filepath.Join(p.ChartsDir, filename)
}

// GetExportPath returns the full path for an exported view
func (p *Paths) GetExportPath(filename string) string {
	return filepath.Join(p.ExportsDir, filename)
}

// GetLogPath returns the full path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// ResolveSource locates a report's input file. Absolute sources are used as
// given; relative ones are looked up in the data directory first and then in
// the working directory.
func (p *Paths) ResolveSource(source string) string {
	if filepath.IsAbs(source) {
		return source
	}
	candidate := p.GetDataPath(source)
	if FileExists(candidate) {
		return candidate
	}
	if FileExists(source) {
		return source
	}
	return candidate
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs where every directory resolved to
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	wd, _ := os.Getwd()
	logger.Info("Path resolution",
		slog.Group("paths",
			slog.String("base", p.BaseDir),
			slog.String("data", p.DataDir),
			slog.String("charts", p.ChartsDir),
			slog.String("exports", p.ExportsDir),
			slog.String("logs", p.LogsDir),
		),
		slog.Group("environment",
			slog.String("working_dir", wd),
		),
	)
}
