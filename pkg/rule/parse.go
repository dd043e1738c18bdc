package rule

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlRule is the on-disk shape of a structured rule definition.
type yamlRule struct {
	ID          string            `yaml:"id"`
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Category    string            `yaml:"category"`
	Severity    string            `yaml:"severity"`
	AppliesTo   []string          `yaml:"applies_to"`
	Phases      []string          `yaml:"phases"`
	Params      map[string]string `yaml:"params"`
	Expression  string            `yaml:"expression"`
}

// ParseFile parses a single rule definition file into a Config. The format
// is chosen by extension: .yaml/.yml use the structured format, .a uses the
// annotated expression format.
func ParseFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Cause: err}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, &ParseError{Path: path, Cause: err}
	}

	var cfg *Config

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		cfg, err = parseYAML(path, data)
	case ".a":
		cfg, err = parseAnnotated(path, data)
	default:
		return nil, &ParseError{Path: path, Cause: fmt.Errorf("unrecognized rule file extension %q", ext)}
	}
	if err != nil {
		return nil, err
	}

	cfg.SourcePath = path
	cfg.ModTime = info.ModTime()
	return cfg, nil
}

// parseYAML decodes a structured rule definition.
func parseYAML(path string, data []byte) (*Config, error) {
	var raw yamlRule
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Path: path, Cause: err}
	}

	if raw.ID == "" {
		return nil, &ParseError{Path: path, Cause: fmt.Errorf("rule definition has no id")}
	}

	cfg := &Config{
		ID:          raw.ID,
		Name:        raw.Name,
		Description: raw.Description,
		Category:    raw.Category,
		Format:      FormatYAML,
		Severity:    Severity(raw.Severity),
		AppliesTo:   raw.AppliesTo,
		Params:      raw.Params,
		Expression:  raw.Expression,
	}
	for _, p := range raw.Phases {
		cfg.Phases = append(cfg.Phases, Phase(p))
	}

	return cfg, nil
}

// parseAnnotated parses the .a expression format. Metadata lives in
// comment-style headers ("# id:", "# name:", ...); every non-comment,
// non-blank line belongs to the expression body.
func parseAnnotated(path string, data []byte) (*Config, error) {
	cfg := &Config{Format: FormatExpression}
	var body strings.Builder

	for _, line := range strings.Split(string(data), "\n") {
		switch {
		case strings.HasPrefix(line, "# id:"):
			cfg.ID = strings.TrimSpace(line[len("# id:"):])
		case strings.HasPrefix(line, "# name:"):
			cfg.Name = strings.TrimSpace(line[len("# name:"):])
		case strings.HasPrefix(line, "# description:"):
			cfg.Description = strings.TrimSpace(line[len("# description:"):])
		case strings.HasPrefix(line, "# category:"):
			cfg.Category = strings.TrimSpace(line[len("# category:"):])
		case strings.HasPrefix(line, "# severity:"):
			cfg.Severity = Severity(strings.TrimSpace(line[len("# severity:"):]))
		case strings.HasPrefix(line, "# @phases:"):
			cfg.Phases = parsePhaseList(line[len("# @phases:"):])
		case strings.HasPrefix(line, "# @applies_to:"):
			for _, s := range parseQuotedList(line[len("# @applies_to:"):]) {
				cfg.AppliesTo = append(cfg.AppliesTo, s)
			}
		case strings.HasPrefix(strings.TrimSpace(line), "#"):
			// Plain comment, not metadata.
		case strings.TrimSpace(line) != "":
			body.WriteString(line)
			body.WriteString("\n")
		}
	}

	if cfg.ID == "" {
		return nil, &ParseError{Path: path, Cause: fmt.Errorf("rule definition has no id")}
	}

	cfg.Expression = body.String()
	return cfg, nil
}

// parsePhaseList parses `["sanitization", "compliance"]` style lists.
func parsePhaseList(s string) []Phase {
	var phases []Phase
	for _, item := range parseQuotedList(s) {
		phases = append(phases, Phase(item))
	}
	return phases
}

// parseQuotedList parses a bracketed, comma-separated list of optionally
// quoted strings.
func parseQuotedList(s string) []string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil
	}
	s = s[1 : len(s)-1]

	var items []string
	for _, part := range strings.Split(s, ",") {
		item := strings.Trim(strings.TrimSpace(part), `"'`)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// recognizedExtension reports whether path looks like a rule definition file.
func recognizedExtension(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".a":
		return true
	}
	return false
}
