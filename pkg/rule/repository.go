package rule

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Repository loads rule definitions from a rules directory and partitions
// them into the available set (everything parsed) and the enabled set
// (definitions under enabled/). It is an explicitly constructed service;
// callers inject it where needed rather than sharing a global registry.
//
// All public methods serialize on one coarse mutex.
type Repository struct {
	mu sync.Mutex

	// available holds every parsed rule keyed by id.
	available map[string]*Config

	// enabled holds the ids of rules currently enabled in memory.
	enabled map[string]bool

	logger *slog.Logger
}

// NewRepository creates an empty rule repository.
func NewRepository(logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		available: make(map[string]*Config),
		enabled:   make(map[string]bool),
		logger:    logger.With("component", "rule.repository"),
	}
}

// Scan walks the enabled/ and disabled/ subtrees of dir and replaces the
// repository contents with the parsed definitions. Individual parse
// failures skip that file and continue; they are returned for reporting
// but do not fail the scan.
func (r *Repository) Scan(dir string) ([]error, error) {
	available := make(map[string]*Config)
	enabled := make(map[string]bool)
	var parseErrors []error

	for _, sub := range []string{"enabled", "disabled"} {
		subdir := filepath.Join(dir, sub)
		isEnabled := sub == "enabled"

		if _, err := os.Stat(subdir); os.IsNotExist(err) {
			continue
		}

		err := filepath.WalkDir(subdir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !recognizedExtension(path) {
				return nil
			}

			cfg, perr := ParseFile(path)
			if perr != nil {
				r.logger.Warn("skipping malformed rule file",
					"path", path,
					"error", perr,
				)
				parseErrors = append(parseErrors, perr)
				return nil
			}

			cfg.Enabled = isEnabled
			available[cfg.ID] = cfg
			if isEnabled {
				enabled[cfg.ID] = true
			}
			return nil
		})
		if err != nil {
			return parseErrors, &ScanError{Dir: subdir, Cause: err}
		}
	}

	r.mu.Lock()
	r.available = available
	r.enabled = enabled
	r.mu.Unlock()

	r.logger.Info("rules loaded",
		"dir", dir,
		"available", len(available),
		"enabled", len(enabled),
	)

	return parseErrors, nil
}

// Available returns all parsed rules sorted by id.
func (r *Repository) Available() []*Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return sortConfigs(r.available, nil)
}

// Enabled returns the currently enabled rules sorted by id.
func (r *Repository) Enabled() []*Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return sortConfigs(r.available, func(c *Config) bool {
		return r.enabled[c.ID]
	})
}

// Get returns the rule with the given id from the available set.
func (r *Repository) Get(id string) (*Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cfg, ok := r.available[id]
	if !ok {
		return nil, ErrRuleNotFound
	}
	return cfg, nil
}

// Enable adds the rule to the in-memory enabled set. It does not touch
// disk and is idempotent.
func (r *Repository) Enable(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.available[id]; !ok {
		return ErrRuleNotFound
	}
	r.enabled[id] = true
	return nil
}

// Disable removes the rule from the in-memory enabled set. It does not
// touch disk and is idempotent.
func (r *Repository) Disable(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.available[id]; !ok {
		return ErrRuleNotFound
	}
	delete(r.enabled, id)
	return nil
}

// IsEnabled reports whether the rule is in the enabled set.
func (r *Repository) IsEnabled(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enabled[id]
}

// ByCategory returns the available rules in the given category, sorted by id.
func (r *Repository) ByCategory(category string) []*Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return sortConfigs(r.available, func(c *Config) bool {
		return c.Category == category
	})
}

// ByPhase returns the enabled rules participating in the given phase,
// sorted by id.
func (r *Repository) ByPhase(phase Phase) []*Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return sortConfigs(r.available, func(c *Config) bool {
		return r.enabled[c.ID] && c.InPhase(phase)
	})
}

// Counts returns the available and enabled rule counts.
func (r *Repository) Counts() (available, enabled int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.available), len(r.enabled)
}

// sortConfigs filters and sorts a config map by id. A nil filter keeps
// everything.
func sortConfigs(m map[string]*Config, keep func(*Config) bool) []*Config {
	configs := make([]*Config, 0, len(m))
	for _, cfg := range m {
		if keep == nil || keep(cfg) {
			configs = append(configs, cfg)
		}
	}
	sort.Slice(configs, func(i, j int) bool { return configs[i].ID < configs[j].ID })
	return configs
}
