// Package ignore evaluates per-repository file exclusion rules.
// A file matched by a rule is excluded from every line-count metric.
package ignore

import (
	"fmt"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Wildcard is the rule key that applies to repositories without an entry of
// their own.
const Wildcard = "*"

// Rule is the exclusion record for one repository: repo-relative path
// prefixes and file-extension suffixes.
type Rule struct {
	Prefixes   []string `yaml:"prefixes"`
	Extensions []string `yaml:"extensions"`
}

// Rules maps a repository identifier (or Wildcard) to its Rule. Exactly one
// Rule applies per lookup: a repository-specific entry shadows the wildcard
// entry, they are never merged.
type Rules struct {
	byRepo map[string]Rule
}

// New builds a rule table from an already-parsed mapping.
func New(byRepo map[string]Rule) *Rules {
	return &Rules{byRepo: byRepo}
}

// Parse decodes a YAML document of the form
//
//	owner/name:
//	  prefixes: [docs/, vendor/]
//	  extensions: [.svg, lock]
//	"*":
//	  extensions: [.min.js]
//
// into a rule table.
func Parse(data []byte) (*Rules, error) {
	byRepo := make(map[string]Rule)
	if err := yaml.Unmarshal(data, &byRepo); err != nil {
		return nil, fmt.Errorf("failed to parse ignore rules: %w", err)
	}
	return New(byRepo), nil
}

// Load reads the rule file at path. Absence or a parse failure degrades to an
// empty table (nothing ignored) with a warning, never a failed run.
func Load(path string, logger *log.Logger) *Rules {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Printf("ignore rules unreadable, ignoring nothing: %v", err)
		}
		return New(nil)
	}
	rules, err := Parse(data)
	if err != nil {
		logger.Printf("ignore rules malformed, ignoring nothing: %v", err)
		return New(nil)
	}
	return rules
}

// ShouldIgnore reports whether path should be excluded from metrics for the
// given repository. A nil or empty table ignores nothing.
func (r *Rules) ShouldIgnore(repository, path string) bool {
	if r == nil || len(r.byRepo) == 0 {
		return false
	}
	rule, ok := r.byRepo[repository]
	if !ok {
		rule, ok = r.byRepo[Wildcard]
		if !ok {
			return false
		}
	}

	normalized := strings.ReplaceAll(path, `\`, "/")
	for _, prefix := range rule.Prefixes {
		prefix = strings.ReplaceAll(prefix, `\`, "/")
		if prefix != "" && strings.HasPrefix(normalized, prefix) {
			return true
		}
	}

	lowered := strings.ToLower(normalized)
	for _, ext := range rule.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			// An empty entry would suffix-match every path.
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if strings.HasSuffix(lowered, ext) {
			return true
		}
	}
	return false
}
