// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package token estimates translation-service token counts from character
// counts. Estimates are heuristic: the external service bills in tokens,
// and a per-language characters-per-token divisor is close enough for
// batch budgeting.
package token

import (
	"math"
	"strings"
	"sync"

	"github.com/docparity/docparity/pkg/types"
)

// cjkLanguages are the language codes estimated at the denser CJK divisor.
var cjkLanguages = map[string]bool{
	"ja": true,
	"zh": true,
	"ko": true,
}

// Estimator maps (text, language) to a token count. It owns an explicit
// bounded memoization cache; there is no package-level state, so separate
// estimators never interfere.
type Estimator struct {
	cfg types.TokenConfig

	mu    sync.Mutex
	cache map[cacheKey]int
}

type cacheKey struct {
	text string
	lang string
	code bool
}

// NewEstimator builds an estimator from cfg, filling in documented
// defaults for zero-valued fields.
func NewEstimator(cfg types.TokenConfig) *Estimator {
	if cfg.DefaultDivisor == 0 {
		cfg.DefaultDivisor = 4
	}
	if cfg.CJKDivisor == 0 {
		cfg.CJKDivisor = 2
	}
	if cfg.CodeDivisor == 0 {
		cfg.CodeDivisor = 3
	}
	e := &Estimator{cfg: cfg}
	if cfg.CacheSize > 0 {
		e.cache = make(map[cacheKey]int, cfg.CacheSize)
	}
	return e
}

// Estimate returns the token count for prose text in the given language.
// Empty text estimates to zero; non-empty text to at least one token.
func (e *Estimator) Estimate(text, language string) int {
	return e.estimate(text, language, false)
}

// EstimateNode estimates one document node, applying the code divisor to
// code blocks and the node's document language otherwise.
func (e *Estimator) EstimateNode(n types.DocumentNode) int {
	return e.estimate(n.Content, n.DocLanguage, n.Kind == types.KindCodeBlock)
}

func (e *Estimator) estimate(text, language string, code bool) int {
	if text == "" {
		return 0
	}

	key := cacheKey{text: text, lang: language, code: code}
	if e.cache != nil {
		e.mu.Lock()
		if n, ok := e.cache[key]; ok {
			e.mu.Unlock()
			return n
		}
		e.mu.Unlock()
	}

	divisor := e.cfg.DefaultDivisor
	switch {
	case code:
		divisor = e.cfg.CodeDivisor
	case cjkLanguages[baseLang(language)]:
		divisor = e.cfg.CJKDivisor
	}

	n := int(math.Ceil(float64(len([]rune(text))) / divisor))
	if n < 1 {
		n = 1
	}

	if e.cache != nil {
		e.mu.Lock()
		// Document content rarely repeats; titles and captions do. A full
		// reset at capacity keeps the bound explicit without LRU bookkeeping.
		if len(e.cache) >= e.cfg.CacheSize {
			e.cache = make(map[cacheKey]int, e.cfg.CacheSize)
		}
		e.cache[key] = n
		e.mu.Unlock()
	}
	return n
}

// baseLang strips a region subtag: "zh-TW" estimates like "zh".
func baseLang(language string) string {
	if i := strings.IndexAny(language, "-_"); i > 0 {
		return strings.ToLower(language[:i])
	}
	return strings.ToLower(language)
}
