package flags

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// #region normalize

var whitespaceRe = regexp.MustCompile(`\s+`)

// Normalize lowercases text, collapses runs of whitespace into single
// spaces and trims the result. All substring matching happens on
// normalized text.
func Normalize(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(strings.ToLower(text), " "))
}

// #endregion normalize

// #region catalog

// Catalog holds every loaded flag, indexed for lookup by id, category,
// severity and intent type. A Catalog is immutable after load.
type Catalog struct {
	flags      []*Flag
	byID       map[string]*Flag
	byCategory map[string][]*Flag
	bySeverity map[Severity][]*Flag
	byIntent   map[string][]*Flag
}

// NewCatalog builds an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		byID:       make(map[string]*Flag),
		byCategory: make(map[string][]*Flag),
		bySeverity: make(map[Severity][]*Flag),
		byIntent:   make(map[string][]*Flag),
	}
}

// add prepares a flag for matching and registers it in every index.
// Flags with an already-registered id are skipped, regexes that fail to
// compile are dropped.
func (c *Catalog) add(f *Flag, log *zap.Logger) {
	if f.ID == "" {
		return
	}
	if _, dup := c.byID[f.ID]; dup {
		if log != nil {
			log.Warn("duplicate flag id ignored", zap.String("flag", f.ID))
		}
		return
	}
	f.normPatterns = f.normPatterns[:0]
	for _, p := range f.PatternsAny {
		if n := Normalize(p); n != "" {
			f.normPatterns = append(f.normPatterns, n)
		}
	}
	f.compiled = f.compiled[:0]
	for _, expr := range f.RegexAny {
		re, err := regexp.Compile(`(?im)` + expr)
		if err != nil {
			if log != nil {
				log.Warn("invalid flag regex dropped",
					zap.String("flag", f.ID), zap.String("regex", expr), zap.Error(err))
			}
			continue
		}
		f.compiled = append(f.compiled, re)
	}
	c.flags = append(c.flags, f)
	c.byID[f.ID] = f
	c.byCategory[f.Category] = append(c.byCategory[f.Category], f)
	c.bySeverity[f.Severity] = append(c.bySeverity[f.Severity], f)
	if f.IntentType != "" {
		c.byIntent[f.IntentType] = append(c.byIntent[f.IntentType], f)
	}
}

// LoadDir loads every *.json file under dir into the catalog. Files that
// cannot be read or parsed are skipped with a warning, never a failure.
func (c *Catalog) LoadDir(dir string, log *zap.Logger) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if log != nil {
			log.Warn("flag directory unreadable", zap.String("dir", dir), zap.Error(err))
		}
		return
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	for _, name := range names {
		c.LoadFile(filepath.Join(dir, name), log)
	}
}

// LoadFile loads a single flag document into the catalog.
func (c *Catalog) LoadFile(path string, log *zap.Logger) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if log != nil {
			log.Warn("flag file unreadable", zap.String("path", path), zap.Error(err))
		}
		return
	}
	var doc File
	if err := json.Unmarshal(raw, &doc); err != nil {
		if log != nil {
			log.Warn("flag file malformed", zap.String("path", path), zap.Error(err))
		}
		return
	}
	for i := range doc.Flags {
		c.add(&doc.Flags[i], log)
	}
	if log != nil {
		log.Info("flag file loaded",
			zap.String("path", path), zap.Int("flags", len(doc.Flags)))
	}
}

// Len reports how many flags the catalog holds.
func (c *Catalog) Len() int { return len(c.flags) }

// Get returns the flag registered under id.
func (c *Catalog) Get(id string) (*Flag, bool) {
	f, ok := c.byID[id]
	return f, ok
}

// Categories returns the sorted distinct categories across loaded flags.
func (c *Catalog) Categories() []string {
	out := make([]string, 0, len(c.byCategory))
	for cat := range c.byCategory {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}

// #endregion catalog

// #region match

// Match evaluates every flag against text. Substrings are checked against
// the normalized text, regexes against the original. Each flag contributes
// at most one summary and order follows load order.
func (c *Catalog) Match(text string) []Summary {
	norm := Normalize(text)
	var out []Summary
	for _, f := range c.flags {
		if f.matches(norm, text) {
			out = append(out, f.summary())
		}
	}
	return out
}

// MatchAny reports whether any pattern is a substring of the normalized
// text. Built-in lexicon tables and dynamic flags share this check.
func MatchAny(norm string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(norm, p) {
			return true
		}
	}
	return false
}

func (f *Flag) matches(norm, original string) bool {
	if MatchAny(norm, f.normPatterns) {
		return true
	}
	for _, re := range f.compiled {
		if re.MatchString(original) {
			return true
		}
	}
	return false
}

// MaxSeverityOf returns the highest severity among matched summaries,
// or "none" when the slice is empty.
func MaxSeverityOf(matches []Summary) Severity {
	max := SeverityNone
	for _, m := range matches {
		max = MaxSeverity(max, m.Severity)
	}
	return max
}

// #endregion match
