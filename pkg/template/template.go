// Package template implements Quill's prompt template language: a string
// with {{variable}} and {{function(key=value)}} placeholders, plus a legacy
// single-brace {variable} form. Rendering never fails; every problem
// degrades to an empty substitution and a warning.
package template

import (
	"fmt"
	"regexp"
	"strings"

	storycontext "github.com/quillhq/quill/pkg/context"
	"github.com/quillhq/quill/pkg/types"
)

// Result is the outcome of one render call.
type Result struct {
	// Text is the template with every recognized token replaced.
	Text string

	// Warnings lists the non-fatal problems hit while rendering: unknown
	// variables, unknown functions, malformed arguments.
	Warnings []string
}

// Data carries everything a render call can draw from. The renderer is pure
// and synchronous: it never touches the store or performs I/O.
type Data struct {
	// Vars is the caller-built variable table (beat, selection, scene,
	// scene_title, chapter_title, project_title, conversation, extras).
	// Entries here take precedence over derived variables.
	Vars map[string]string

	// Sections is the context built for the target scene.
	Sections storycontext.SceneContextSections

	// Memory is the rolling-memory text for the target. It is addressable
	// on its own and is prepended to the combined context.
	Memory string

	// SceneText is the full, untruncated scene text, used by scene_tail.
	SceneText string

	// Conversation is the chat history, used by chat_history and as the
	// fallback source for the conversation variable.
	Conversation []*types.Message
}

var legacyTokenRegex = regexp.MustCompile(`^\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Render evaluates tmpl against data. An empty (after trimming) template is
// silently replaced by fallback before evaluation. Literal text outside
// tokens passes through unchanged, including single braces that do not match
// the legacy bare-identifier form.
func Render(tmpl, fallback string, data Data) Result {
	if strings.TrimSpace(tmpl) == "" {
		tmpl = fallback
	}

	var out strings.Builder
	var warnings []string
	out.Grow(len(tmpl))

	for i := 0; i < len(tmpl); {
		next := strings.IndexByte(tmpl[i:], '{')
		if next < 0 {
			out.WriteString(tmpl[i:])
			break
		}
		out.WriteString(tmpl[i : i+next])
		i += next

		if strings.HasPrefix(tmpl[i:], "{{") {
			end := strings.Index(tmpl[i+2:], "}}")
			if end < 0 {
				// Unterminated token: the rest is literal text.
				out.WriteString(tmpl[i:])
				break
			}
			inner := tmpl[i+2 : i+2+end]
			value, warns := evalToken(inner, data)
			out.WriteString(value)
			warnings = append(warnings, warns...)
			i += end + 4
			continue
		}

		if m := legacyTokenRegex.FindStringSubmatch(tmpl[i:]); m != nil {
			value, warn := lookupVar(m[1], data)
			out.WriteString(value)
			if warn != "" {
				warnings = append(warnings, warn)
			}
			i += len(m[0])
			continue
		}

		// A lone brace with no matching token shape is literal.
		out.WriteByte('{')
		i++
	}

	return Result{Text: out.String(), Warnings: warnings}
}

// evalToken evaluates the contents of a {{...}} token: either a bare
// variable reference or a function call.
func evalToken(inner string, data Data) (string, []string) {
	trimmed := strings.TrimSpace(inner)

	if open := strings.IndexByte(trimmed, '('); open >= 0 && strings.HasSuffix(trimmed, ")") {
		name := strings.TrimSpace(trimmed[:open])
		rawArgs := trimmed[open+1 : len(trimmed)-1]
		return evalCall(name, rawArgs, data)
	}

	value, warn := lookupVar(trimmed, data)
	if warn != "" {
		return value, []string{warn}
	}
	return value, nil
}

// lookupVar resolves a variable reference. Caller-supplied entries win over
// derived ones; an unresolvable name yields "" and a warning.
func lookupVar(name string, data Data) (value string, warning string) {
	if v, ok := data.Vars[name]; ok {
		return v, ""
	}
	switch name {
	case "memory":
		return data.Memory, ""
	case "context":
		return combinedContext(data), ""
	case "context_compendium":
		return data.Sections.Compendium, ""
	case "context_scene_summaries":
		return data.Sections.SceneSummaries, ""
	case "context_chapter_summaries":
		return data.Sections.ChapterSummaries, ""
	case "conversation":
		return formatConversation(data.Conversation, len(data.Conversation)), ""
	}
	return "", fmt.Sprintf("unknown variable: %s", name)
}

// combinedContext prepends the rolling-memory text to the combined sections.
// The ordering mirrors what the application has always produced.
func combinedContext(data Data) string {
	if data.Memory == "" {
		return data.Sections.Combined
	}
	if data.Sections.Combined == "" {
		return data.Memory
	}
	return data.Memory + "\n" + data.Sections.Combined
}

// formatConversation renders the last n turns as "<Role>: <content>" blocks
// joined by blank lines.
func formatConversation(messages []*types.Message, n int) string {
	if n < 0 {
		n = 0
	}
	if n > len(messages) {
		n = len(messages)
	}
	tail := messages[len(messages)-n:]

	parts := make([]string, 0, len(tail))
	for _, m := range tail {
		if m == nil {
			continue
		}
		parts = append(parts, m.DisplayRole()+": "+m.Content)
	}
	return strings.Join(parts, "\n\n")
}
