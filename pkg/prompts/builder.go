package prompts

import "strings"

// BuildMergePrompt builds the user message for a rolling-memory merge call.
// existing is the current summary ("" when the memory is absent or stale);
// source is the new material, already capped by the caller.
func BuildMergePrompt(existing, source string) string {
	var b strings.Builder

	b.WriteString("Current memory:\n")
	if strings.TrimSpace(existing) == "" {
		b.WriteString("(empty)\n")
	} else {
		b.WriteString(existing)
		b.WriteString("\n")
	}

	b.WriteString("\nNew material:\n")
	b.WriteString(source)
	b.WriteString("\n\nReturn the updated memory.")

	return b.String()
}

// CapText truncates s to at most max characters (runes, so multi-byte text
// is never split mid-character). A non-positive max disables the cap. Source
// excerpts are capped before the merge call so a pathological scene cannot
// blow the request budget.
func CapText(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
