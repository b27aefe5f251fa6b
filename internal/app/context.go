package app

import (
	"fmt"
	"strings"

	"kbassist/internal/model"
)

// BuildContext renders retrieved chunks as a labeled block, one ordinal line
// per chunk in retrieval order. An empty chunk list yields an empty string;
// the caller must short-circuit generation in that case instead of prompting
// with no context.
func BuildContext(chunks []model.RetrievedChunk) string {
	if len(chunks) == 0 {
		return ""
	}

	var b strings.Builder
	for i, c := range chunks {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "#%d %s (resource: %s)", i+1, c.Content, c.ResourceID)
	}
	return b.String()
}
