// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// BatchContext is the optional context bag attached to a batch: summaries
// of the nodes surrounding the batch span, the owning section title, and
// glossary terms found in the batch content.
type BatchContext struct {
	// PrecedingText summarizes the nodes just before the batch's first node.
	PrecedingText string `json:"preceding_text,omitempty" yaml:"preceding_text,omitempty"`

	// FollowingText summarizes the nodes just after the batch's last node.
	FollowingText string `json:"following_text,omitempty" yaml:"following_text,omitempty"`

	// SectionTitle is the nearest enclosing section title for the batch.
	SectionTitle string `json:"section_title,omitempty" yaml:"section_title,omitempty"`

	// GlossaryTerms lists terminology entries matched in the batch content.
	GlossaryTerms []string `json:"glossary_terms,omitempty" yaml:"glossary_terms,omitempty"`
}

// TranslationBatch is a token-bounded group of node ids destined for one
// external translation request. Across a packing run the batches partition
// the input node set: every node id appears in exactly one batch.
type TranslationBatch struct {
	// BatchID is monotonically increasing within a packing run, from 1.
	BatchID int `json:"batch_id" yaml:"batch_id"`

	// EstimatedTokens is the running token estimate for the batch content.
	EstimatedTokens int `json:"estimated_tokens" yaml:"estimated_tokens"`

	// FileGroup is the dominant source file of the batch's nodes.
	FileGroup string `json:"file_group" yaml:"file_group"`

	// SectionRange is a human-readable span descriptor derived from the
	// first and last node titles, e.g. "Introduction to Quick Start".
	SectionRange string `json:"section_range" yaml:"section_range"`

	// NodeIDs lists the batch members in document order.
	NodeIDs []string `json:"node_ids" yaml:"node_ids"`

	// OversizedUnit marks a singleton batch whose lone node exceeds the
	// configured token ceiling. Such a node is never split; the overrun is
	// surfaced here and in the run metrics instead.
	OversizedUnit bool `json:"oversized_unit,omitempty" yaml:"oversized_unit,omitempty"`

	// Context is the optional context bag; nil when context is disabled.
	Context *BatchContext `json:"context,omitempty" yaml:"context,omitempty"`
}

// PackingMetrics reports on a completed packing run. These are reporting
// outputs only; they never feed back into packing decisions.
type PackingMetrics struct {
	// TotalNodes is the number of input nodes packed.
	TotalNodes int `json:"total_nodes" yaml:"total_nodes"`

	// TotalBatches is the number of batches emitted.
	TotalBatches int `json:"total_batches" yaml:"total_batches"`

	// BatchEfficiency is mean(estimated_tokens) / target_size. Values
	// above 1.0 indicate over-target batches, below 1.0 under-target.
	BatchEfficiency float64 `json:"batch_efficiency" yaml:"batch_efficiency"`

	// APICallsSaved is input node count minus batch count: the requests
	// avoided relative to one-node-per-request submission.
	APICallsSaved int `json:"api_calls_saved" yaml:"api_calls_saved"`

	// MinBatchTokens and MaxBatchTokens bound the emitted batch sizes.
	MinBatchTokens int `json:"min_batch_tokens" yaml:"min_batch_tokens"`
	MaxBatchTokens int `json:"max_batch_tokens" yaml:"max_batch_tokens"`

	// OversizedBatches counts singleton batches over the token ceiling.
	OversizedBatches int `json:"oversized_batches" yaml:"oversized_batches"`
}
