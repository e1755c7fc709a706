// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// StructuralError reports a dangling node reference: a parent or member id
// that resolves to no known node. The parser contract guarantees tree-edge
// consistency, so this is a contract violation. It aborts work on the
// affected file only; the rest of a run proceeds.
type StructuralError struct {
	// NodeID is the node carrying the dangling reference.
	NodeID string

	// Ref is the id that failed to resolve.
	Ref string

	// FilePath locates the inconsistency.
	FilePath string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("structural inconsistency in %s: node %s references unknown node %s",
		e.FilePath, e.NodeID, e.Ref)
}
