package loader

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"akao-hq/akao/pkg/rule"
)

// Kind identifies the component families the loader knows how to resolve.
type Kind string

const (
	KindPhilosophy Kind = "philosophy"
	KindRule       Kind = "rule"
	KindRuleset    Kind = "ruleset"
)

// Component is a lazily loaded framework component.
type Component struct {
	ID   string
	Kind Kind
	Path string

	// Value is the parsed content: *rule.Config for rules, a generic
	// map for philosophies and rulesets.
	Value any
}

// Stats reports cache effectiveness counters.
type Stats struct {
	CacheHits     uint64
	CacheMisses   uint64
	HotReloads    uint64
	TotalLoadTime time.Duration
}

// cacheName labels the loader's cache in recorder calls.
const cacheName = "components"

// CacheRecorder observes cache activity, typically for metrics.
// *metrics.CacheMetrics satisfies it.
type CacheRecorder interface {
	RecordHit(cache string)
	RecordMiss(cache string)
	RecordHotReload(cache string)
	RecordEviction(cache string)
	UpdateSize(cache string, size int)
}

// entry is one cached component with its bookkeeping timestamps. Eviction
// always removes the whole entry, never individual fields.
type entry struct {
	component *Component
	loadedAt  time.Time
	fileMtime time.Time
}

// LazyLoader caches parsed components keyed by component id, with
// pull-based hot-reload tracking and TTL eviction.
//
// All public methods serialize on one coarse mutex; concurrent callers
// block for the full body of each call.
type LazyLoader struct {
	mu sync.Mutex

	// root is the directory the component naming conventions resolve
	// against (it contains philosophies/, rules/, rulesets/).
	root string

	ttl   time.Duration
	cache map[string]*entry

	// hotReload is the set of component ids ScanForChanges inspects.
	hotReload map[string]bool

	stats    Stats
	recorder CacheRecorder
	logger   *slog.Logger

	// now is swappable for TTL tests.
	now func() time.Time
}

// New creates a LazyLoader resolving component files under root. A
// non-positive ttl falls back to 30 minutes.
func New(root string, ttl time.Duration, logger *slog.Logger) *LazyLoader {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LazyLoader{
		root:      root,
		ttl:       ttl,
		cache:     make(map[string]*entry),
		hotReload: make(map[string]bool),
		logger:    logger.With("component", "rule.loader"),
		now:       time.Now,
	}
}

// SetRecorder attaches a cache activity recorder.
func (l *LazyLoader) SetRecorder(r CacheRecorder) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.recorder = r
}

// GetOrLoad returns the cached component for id, loading and caching it on
// a miss. Hits and misses bump the respective counters.
func (l *LazyLoader) GetOrLoad(id string) (*Component, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok := l.cache[id]; ok {
		l.stats.CacheHits++
		if l.recorder != nil {
			l.recorder.RecordHit(cacheName)
		}
		return e.component, nil
	}

	l.stats.CacheMisses++
	if l.recorder != nil {
		l.recorder.RecordMiss(cacheName)
	}
	c, err := l.loadLocked(id)
	if err == nil {
		l.recordSizeLocked()
	}
	return c, err
}

// ResolveRule returns the loader's current parsed definition of the
// rule, registering it for hot reload so subsequent scans pick up file
// edits. ok is false when the component cannot be loaded or is not a
// rule. Satisfies the pipeline's Resolver seam.
func (l *LazyLoader) ResolveRule(id string) (*rule.Config, bool) {
	c, err := l.GetOrLoad(id)
	if err != nil {
		return nil, false
	}
	cfg, ok := c.Value.(*rule.Config)
	if !ok {
		return nil, false
	}
	l.EnableHotReload(id)
	return cfg, true
}

// Unload evicts the component from the cache. The entry's value and both
// timestamps are removed together.
func (l *LazyLoader) Unload(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.cache, id)
	l.recordSizeLocked()
	l.logger.Debug("unloaded component", "id", id)
}

// Reload forces an eviction and immediate reload of the component,
// counting as a hot reload.
func (l *LazyLoader) Reload(id string) (*Component, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.cache, id)
	l.stats.HotReloads++
	if l.recorder != nil {
		l.recorder.RecordHotReload(cacheName)
	}

	c, err := l.loadLocked(id)
	l.recordSizeLocked()
	return c, err
}

// ClearCache drops every cached component.
func (l *LazyLoader) ClearCache() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]*entry)
	l.recordSizeLocked()
	l.logger.Debug("cleared component cache")
}

// ClearExpiredCache evicts entries whose load timestamp is older than the
// TTL. Each eviction removes the value and both timestamps atomically.
func (l *LazyLoader) ClearExpiredCache() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	evicted := 0
	for id, e := range l.cache {
		if now.Sub(e.loadedAt) > l.ttl {
			delete(l.cache, id)
			evicted++
			if l.recorder != nil {
				l.recorder.RecordEviction(cacheName)
			}
		}
	}

	if evicted > 0 {
		l.recordSizeLocked()
		l.logger.Debug("evicted expired components", "count", evicted)
	}
	return evicted
}

// CacheSize returns the number of cached components.
func (l *LazyLoader) CacheSize() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.cache)
}

// EnableHotReload adds the component to the set ScanForChanges inspects.
func (l *LazyLoader) EnableHotReload(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hotReload[id] = true
}

// DisableHotReload removes the component from the hot-reload set.
func (l *LazyLoader) DisableHotReload(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.hotReload, id)
}

// ScanForChanges compares every hot-reload-tracked component's backing
// file modification time against the cached one, evicting and reloading on
// change. This is pull-based: nothing watches the filesystem unless the
// caller also runs a ChangeWatcher.
//
// A missing backing file yields the zero time, which compares as changed
// against any real cached timestamp and forces a reload attempt. That is
// intentional fail-open behavior: a deleted file surfaces as a load error
// on the next access instead of serving a stale component forever.
func (l *LazyLoader) ScanForChanges() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	reloaded := 0
	for id := range l.hotReload {
		e, ok := l.cache[id]
		if !ok {
			continue
		}

		current := fileMtime(l.componentPath(id))
		if current.Equal(e.fileMtime) {
			continue
		}

		l.logger.Info("component file changed, reloading", "id", id)
		delete(l.cache, id)
		l.stats.HotReloads++
		reloaded++
		if l.recorder != nil {
			l.recorder.RecordHotReload(cacheName)
		}

		if _, err := l.loadLocked(id); err != nil {
			l.logger.Warn("hot reload failed", "id", id, "error", err)
		}
	}

	if reloaded > 0 {
		l.recordSizeLocked()
	}
	return reloaded
}

// Stats returns a snapshot of the loader counters.
func (l *LazyLoader) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}

// ResetStats zeroes the loader counters.
func (l *LazyLoader) ResetStats() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stats = Stats{}
}

// loadLocked loads, parses, and caches the component. Callers hold l.mu.
func (l *LazyLoader) loadLocked(id string) (*Component, error) {
	start := time.Now()

	kind, err := componentKind(id)
	if err != nil {
		return nil, err
	}

	path := l.componentPath(id)
	if path == "" {
		return nil, &ComponentError{ID: id, Op: "resolve", Cause: fmt.Errorf("cannot derive path from id")}
	}

	var value any
	switch kind {
	case KindRule:
		cfg, perr := rule.ParseFile(path)
		if perr != nil {
			return nil, &ComponentError{ID: id, Op: "parse", Cause: perr}
		}
		value = cfg
	default:
		data, rerr := os.ReadFile(path)
		if rerr != nil {
			return nil, &ComponentError{ID: id, Op: "read", Cause: rerr}
		}
		var doc map[string]any
		if uerr := yaml.Unmarshal(data, &doc); uerr != nil {
			return nil, &ComponentError{ID: id, Op: "parse", Cause: uerr}
		}
		value = doc
	}

	c := &Component{ID: id, Kind: kind, Path: path, Value: value}
	l.cache[id] = &entry{
		component: c,
		loadedAt:  l.now(),
		fileMtime: fileMtime(path),
	}
	l.stats.TotalLoadTime += time.Since(start)

	return c, nil
}

// componentKind derives the component family from the id's naming
// convention.
func componentKind(id string) (Kind, error) {
	switch {
	case strings.Contains(id, "philosophy"):
		return KindPhilosophy, nil
	case strings.Contains(id, "rule::"):
		return KindRule, nil
	case strings.Contains(id, "ruleset:"):
		return KindRuleset, nil
	}
	return "", &ComponentError{ID: id, Op: "resolve", Cause: fmt.Errorf("unknown component kind")}
}

// componentPath resolves a component id to its backing file. Ids follow
// the akao:<kind>::<a>:<b>:vN convention; the colon-separated middle
// becomes a directory path under the kind's subtree:
//
//	akao:philosophy::structure:enforcement:v1 -> philosophies/structure/enforcement/v1.yaml
//	akao:rule::structure:naming:v1           -> rules/structure/naming/v1.yaml
//	akao:ruleset:core:v1                     -> rulesets/core/v1.yaml
func (l *LazyLoader) componentPath(id string) string {
	kind, err := componentKind(id)
	if err != nil {
		return ""
	}

	var part string
	switch kind {
	case KindRuleset:
		start := strings.Index(id, "ruleset:")
		if start < 0 {
			return ""
		}
		part = id[start+len("ruleset:"):]
	default:
		start := strings.Index(id, "::")
		if start < 0 {
			return ""
		}
		part = id[start+2:]
	}

	end := strings.LastIndex(part, ":v")
	if end < 0 {
		return ""
	}
	version := part[end+1:]
	part = strings.ReplaceAll(part[:end], ":", "/")

	var subtree string
	switch kind {
	case KindPhilosophy:
		subtree = "philosophies"
	case KindRule:
		subtree = "rules"
	case KindRuleset:
		subtree = "rulesets"
	}

	return filepath.Join(l.root, subtree, part, version+".yaml")
}

// recordSizeLocked reports the current cache size to the recorder.
// Callers hold l.mu.
func (l *LazyLoader) recordSizeLocked() {
	if l.recorder != nil {
		l.recorder.UpdateSize(cacheName, len(l.cache))
	}
}

// fileMtime returns the file's modification time, or the zero time when
// the file cannot be statted.
func fileMtime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
