// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// GlossaryTerm is one terminology record consumed read-only by the
// context assembler. Terms come from an external glossary file.
type GlossaryTerm struct {
	// Term is the canonical surface form.
	Term string `json:"term" yaml:"term"`

	// Definition explains the term for the translator.
	Definition string `json:"definition" yaml:"definition"`

	// Translation is the mandated target-language rendering, when one exists.
	Translation string `json:"translation,omitempty" yaml:"translation,omitempty"`

	// MaintainOriginal marks terms that must stay untranslated.
	MaintainOriginal bool `json:"maintain_original" yaml:"maintain_original"`

	// Aliases lists alternative surface forms that match the same term.
	Aliases []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
}
