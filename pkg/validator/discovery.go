package validator

import (
	"bufio"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// binaryExtensions is the fixed denylist of non-text formats discovery
// never returns.
var binaryExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".bmp": true,
	".ico": true, ".svg": true,
	".mp4": true, ".avi": true, ".mov": true, ".mkv": true, ".wmv": true,
	".mp3": true, ".wav": true, ".flac": true, ".ogg": true,
	".zip": true, ".tar": true, ".gz": true, ".rar": true, ".7z": true,
	".exe": true, ".dll": true, ".so": true, ".dylib": true,
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	".bin": true, ".dat": true, ".db": true, ".sqlite": true,
}

// DiscoveryEngine builds the file set a validation pass operates on.
type DiscoveryEngine struct {
	logger *slog.Logger
}

// NewDiscoveryEngine creates a discovery engine.
func NewDiscoveryEngine(logger *slog.Logger) *DiscoveryEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &DiscoveryEngine{logger: logger.With("component", "validator.discovery")}
}

// Discover returns the files to validate under path. For a directory it
// runs three strict steps, never interleaved:
//
//  1. non-recursive listing of regular dotfiles directly under path;
//  2. ignore patterns parsed from recognized dotfiles (.gitignore);
//  3. recursive walk collecting regular non-dot files, excluding ignore
//     matches and binary extensions.
//
// The result is the dotfiles plus the filtered walk. A single-file path
// returns just that file.
func (d *DiscoveryEngine) Discover(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &DiscoveryError{Path: path, Cause: err}
	}

	if !info.IsDir() {
		return []string{path}, nil
	}

	dotfiles, err := d.discoverDotfiles(path)
	if err != nil {
		return nil, err
	}

	var patterns []string
	for _, dotfile := range dotfiles {
		if filepath.Base(dotfile) == ".gitignore" {
			p, perr := parseIgnoreFile(dotfile)
			if perr != nil {
				d.logger.Warn("skipping unreadable ignore file", "path", dotfile, "error", perr)
				continue
			}
			patterns = append(patterns, p...)
		}
	}

	files, err := d.discoverNonDotfiles(path, patterns)
	if err != nil {
		return nil, err
	}

	all := append(dotfiles, files...)
	d.logger.Debug("file discovery completed",
		"path", path,
		"dotfiles", len(dotfiles),
		"files", len(files),
		"ignore_patterns", len(patterns),
	)
	return all, nil
}

// discoverDotfiles lists regular dotfiles directly under dir,
// non-recursively.
func (d *DiscoveryEngine) discoverDotfiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &DiscoveryError{Path: dir, Cause: err}
	}

	var dotfiles []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if !entry.Type().IsRegular() {
			continue
		}
		dotfiles = append(dotfiles, filepath.Join(dir, entry.Name()))
	}
	return dotfiles, nil
}

// discoverNonDotfiles walks root recursively collecting regular non-dot
// files that neither match an ignore pattern nor carry a binary
// extension. Dot directories are skipped wholesale.
func (d *DiscoveryEngine) discoverNonDotfiles(root string, patterns []string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, not fatal.
			d.logger.Debug("skipping unreadable path", "path", path, "error", err)
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		name := entry.Name()
		if strings.HasPrefix(name, ".") && path != root {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.IsDir() || !entry.Type().IsRegular() {
			return nil
		}

		rel, rerr := filepath.Rel(root, path)
		if rerr != nil {
			rel = path
		}

		for _, pattern := range patterns {
			if matchesIgnorePattern(rel, pattern) {
				return nil
			}
		}

		if binaryExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, &DiscoveryError{Path: root, Cause: err}
	}
	return files, nil
}

// parseIgnoreFile reads a gitignore-style file into a flat pattern list,
// dropping blanks and comments.
func parseIgnoreFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, scanner.Err()
}

// matchesIgnorePattern applies simplified gitignore semantics to a path
// relative to the discovery root: a trailing slash matches the directory
// as a path prefix, a leading * with an extension matches as a suffix,
// anything else matches exactly.
func matchesIgnorePattern(rel, pattern string) bool {
	rel = filepath.ToSlash(rel)

	if strings.HasSuffix(pattern, "/") {
		return strings.HasPrefix(rel, pattern)
	}

	if strings.HasPrefix(pattern, "*") && strings.Contains(pattern, ".") {
		return strings.HasSuffix(rel, pattern[1:])
	}

	return rel == pattern
}
