// Package catalog holds the static, bilingual practice catalog.
//
// The catalog is configuration, not managed state: it is parsed once from
// the embedded YAML document at startup and is immutable for the lifetime
// of the process.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/gigicalma/calmalink/internal/domain"
)

//go:embed catalog.yaml
var rawCatalog []byte

// PracticeCalmBreath is the only practice currently shipped.
const PracticeCalmBreath = "calm_breath"

// fallbackLanguage is used whenever a requested language has no entry.
const fallbackLanguage = domain.LangEnglish

type practiceEntry struct {
	Title           string `yaml:"title"`
	DurationMinutes int    `yaml:"duration_minutes"`
	AudioURL        string `yaml:"audio_url"`
	Script          string `yaml:"script"`
}

type catalogDoc struct {
	Languages map[string]map[string]practiceEntry `yaml:"languages"`
}

// Catalog is the immutable language → practice id → record mapping.
type Catalog struct {
	records map[string]map[string]domain.PracticeRecord
}

// Load parses and validates the embedded catalog document.
func Load() (*Catalog, error) {
	return parse(rawCatalog)
}

func parse(data []byte) (*Catalog, error) {
	var doc catalogDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(doc.Languages) == 0 {
		return nil, fmt.Errorf("catalog has no languages")
	}
	if _, ok := doc.Languages[fallbackLanguage]; !ok {
		return nil, fmt.Errorf("catalog is missing the %q fallback language", fallbackLanguage)
	}

	records := make(map[string]map[string]domain.PracticeRecord, len(doc.Languages))
	for lang, practices := range doc.Languages {
		if len(practices) == 0 {
			return nil, fmt.Errorf("catalog language %q has no practices", lang)
		}
		records[lang] = make(map[string]domain.PracticeRecord, len(practices))
		for id, p := range practices {
			if p.Title == "" || p.AudioURL == "" || p.Script == "" {
				return nil, fmt.Errorf("catalog entry %s/%s is missing title, audio_url or script", lang, id)
			}
			if p.DurationMinutes <= 0 {
				return nil, fmt.Errorf("catalog entry %s/%s has non-positive duration", lang, id)
			}
			records[lang][id] = domain.PracticeRecord{
				ID:              id,
				Language:        lang,
				Title:           p.Title,
				DurationMinutes: p.DurationMinutes,
				AudioURL:        p.AudioURL,
				Script:          p.Script,
			}
		}
	}

	// Every practice must exist in the fallback language, otherwise the
	// degrade-to-English guarantee would not hold.
	for lang, practices := range records {
		for id := range practices {
			if _, ok := records[fallbackLanguage][id]; !ok {
				return nil, fmt.Errorf("practice %q exists in %q but not in %q", id, lang, fallbackLanguage)
			}
		}
	}

	return &Catalog{records: records}, nil
}

// Lookup returns the record for (lang, id), degrading to the English entry
// when the language has no entry. The second return is false only when the
// practice id is unknown in every language.
func (c *Catalog) Lookup(lang, id string) (domain.PracticeRecord, bool) {
	if practices, ok := c.records[lang]; ok {
		if rec, ok := practices[id]; ok {
			return rec, true
		}
	}
	rec, ok := c.records[fallbackLanguage][id]
	return rec, ok
}

// HasLanguage reports whether the catalog carries entries for lang.
func (c *Catalog) HasLanguage(lang string) bool {
	_, ok := c.records[lang]
	return ok
}

// Languages returns the sorted list of language codes in the catalog.
func (c *Catalog) Languages() []string {
	langs := make([]string, 0, len(c.records))
	for lang := range c.records {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Practices returns the records for lang sorted by id, degrading to the
// English entries when the language is absent.
func (c *Catalog) Practices(lang string) []domain.PracticeRecord {
	practices, ok := c.records[lang]
	if !ok {
		practices = c.records[fallbackLanguage]
	}
	ids := make([]string, 0, len(practices))
	for id := range practices {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]domain.PracticeRecord, 0, len(ids))
	for _, id := range ids {
		out = append(out, practices[id])
	}
	return out
}
