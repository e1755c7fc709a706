// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package glossary loads terminology files and finds term occurrences in
// node content. The glossary is read-only input: an empty or absent
// glossary is valid and simply matches nothing.
package glossary

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/docparity/docparity/pkg/types"
)

// file is the on-disk shape of a glossary file.
type file struct {
	Terms []types.GlossaryTerm `json:"terms" yaml:"terms"`
}

// Glossary indexes terminology records for case-insensitive lookup by
// canonical term or alias.
type Glossary struct {
	terms []types.GlossaryTerm

	// byForm maps each lowercased surface form (term or alias) to the
	// index of its record in terms.
	byForm map[string]int
}

// New builds a glossary from records. Later records with a duplicate
// canonical term replace earlier ones.
func New(terms []types.GlossaryTerm) *Glossary {
	g := &Glossary{byForm: make(map[string]int)}
	seen := make(map[string]int)
	for _, t := range terms {
		key := strings.ToLower(t.Term)
		if key == "" {
			continue
		}
		if i, ok := seen[key]; ok {
			g.terms[i] = t
		} else {
			seen[key] = len(g.terms)
			g.terms = append(g.terms, t)
		}
	}
	for i, t := range g.terms {
		g.byForm[strings.ToLower(t.Term)] = i
		for _, alias := range t.Aliases {
			if alias != "" {
				g.byForm[strings.ToLower(alias)] = i
			}
		}
	}
	return g
}

// Load reads a glossary file, YAML or JSON by extension. A missing path
// yields an empty glossary rather than an error.
func Load(path string) (*Glossary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(nil), nil
		}
		return nil, fmt.Errorf("reading glossary %s: %w", path, err)
	}

	var f file
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parsing glossary %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parsing glossary %s: %w", path, err)
		}
	}
	return New(f.Terms), nil
}

// Len returns the number of glossary records.
func (g *Glossary) Len() int { return len(g.terms) }

// Terms returns the records in glossary order.
func (g *Glossary) Terms() []types.GlossaryTerm {
	out := make([]types.GlossaryTerm, len(g.terms))
	copy(out, g.terms)
	return out
}

// Lookup finds a record by canonical term or alias, case-insensitive.
func (g *Glossary) Lookup(form string) (types.GlossaryTerm, bool) {
	i, ok := g.byForm[strings.ToLower(form)]
	if !ok {
		return types.GlossaryTerm{}, false
	}
	return g.terms[i], true
}

// FindInText returns the records whose term or any alias appears as a
// substring of text, case-insensitive, in glossary order. Each record is
// reported once even when multiple forms match.
func (g *Glossary) FindInText(text string) []types.GlossaryTerm {
	if len(g.terms) == 0 || text == "" {
		return nil
	}
	lower := strings.ToLower(text)

	var found []types.GlossaryTerm
	for _, t := range g.terms {
		if strings.Contains(lower, strings.ToLower(t.Term)) {
			found = append(found, t)
			continue
		}
		for _, alias := range t.Aliases {
			if alias != "" && strings.Contains(lower, strings.ToLower(alias)) {
				found = append(found, t)
				break
			}
		}
	}
	return found
}
