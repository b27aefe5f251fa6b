package app

import (
	"fmt"
	"strings"

	"kbassist/internal/model"
)

// PromptConfig parameterizes the persona block.
type PromptConfig struct {
	Organization string
	BuiltBy      string
}

// PromptBuilder composes the final prompt string. It holds no mutable state
// and performs no I/O; identical inputs produce byte-identical prompts.
type PromptBuilder struct {
	cfg PromptConfig
}

func NewPromptBuilder(cfg PromptConfig) *PromptBuilder {
	if cfg.Organization == "" {
		cfg.Organization = "the organization"
	}
	if cfg.BuiltBy == "" {
		cfg.BuiltBy = "the web team"
	}
	return &PromptBuilder{cfg: cfg}
}

// Build concatenates persona, output contract, history, context and the
// question, in that fixed order. History is expected to be pre-truncated by
// the caller; empty history and empty context get literal markers.
func (p *PromptBuilder) Build(question, contextBlock string, history []model.ChatTurn) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are the knowledge assistant of %s. ", p.cfg.Organization)
	b.WriteString("Answer only from the provided context. Style rules: ")
	b.WriteString("use numbered lists (1., 2., ...) when enumerating; ")
	b.WriteString("emphasize key phrases with **bold**; ")
	b.WriteString("write complete, justified prose, not fragments. ")
	fmt.Fprintf(&b, "If asked who built or developed this assistant, answer exactly: \"This assistant was built by %s.\"\n\n", p.cfg.BuiltBy)

	b.WriteString("Output format: respond with a single JSON object with exactly two fields, ")
	b.WriteString(`"answer" (string) and "resource_id" (array of resource id strings used in the answer), and nothing else. `)
	b.WriteString("No markdown fences, no commentary outside the JSON object.\n\n")

	b.WriteString("Conversation so far:\n")
	if len(history) == 0 {
		b.WriteString("(no history)\n")
	} else {
		for _, turn := range history {
			label := "User"
			if turn.Role == model.RoleAssistant {
				label = "Assistant"
			}
			fmt.Fprintf(&b, "%s: %s\n", label, turn.Content)
		}
	}
	b.WriteString("\n")

	b.WriteString("Context:\n")
	if contextBlock == "" {
		b.WriteString("(no context)\n")
	} else {
		b.WriteString(contextBlock)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Question: %q", question)
	return b.String()
}
