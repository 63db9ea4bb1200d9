package template

import (
	"fmt"
	"strconv"
	"strings"
)

// funcKind is the closed set of template functions. Dispatch happens over
// this enumeration rather than raw strings, so every known function is an
// explicit case; names that fail to parse into a kind produce the runtime
// "unknown function" warning.
type funcKind int

const (
	funcSceneTail funcKind = iota
	funcChatHistory
	funcContext
	funcContextCompendium
	funcContextSceneSummaries
	funcContextChapterSummaries
)

// Built-in argument defaults, used when the argument is missing or malformed.
const (
	defaultSceneTailChars   = 3000
	defaultChatHistoryTurns = 12
	defaultSectionMaxChars  = 8000
)

func parseFuncName(name string) (funcKind, bool) {
	switch name {
	case "scene_tail":
		return funcSceneTail, true
	case "chat_history":
		return funcChatHistory, true
	case "context":
		return funcContext, true
	case "context_compendium":
		return funcContextCompendium, true
	case "context_scene_summaries":
		return funcContextSceneSummaries, true
	case "context_chapter_summaries":
		return funcContextChapterSummaries, true
	default:
		return 0, false
	}
}

// evalCall evaluates a {{name(args)}} token.
func evalCall(name, rawArgs string, data Data) (string, []string) {
	kind, ok := parseFuncName(name)
	if !ok {
		return "", []string{fmt.Sprintf("unknown function: %s", name)}
	}

	args := parseArgs(rawArgs)
	var warnings []string
	// A missing argument warns the same way a malformed one does; the bare
	// variable forms (no parens) are the silent path.
	numericArg := func(key string, def int) int {
		n, ok := parseNonNegativeInt(args[key])
		if !ok {
			warnings = append(warnings, fmt.Sprintf("invalid argument for %s, using default", name))
			return def
		}
		return n
	}

	var value string
	switch kind {
	case funcSceneTail:
		value = tailChars(data.SceneText, numericArg("chars", defaultSceneTailChars))
	case funcChatHistory:
		value = formatConversation(data.Conversation, numericArg("turns", defaultChatHistoryTurns))
	case funcContext:
		value = headChars(combinedContext(data), numericArg("max_chars", defaultSectionMaxChars))
	case funcContextCompendium:
		value = headChars(data.Sections.Compendium, numericArg("max_chars", defaultSectionMaxChars))
	case funcContextSceneSummaries:
		value = headChars(data.Sections.SceneSummaries, numericArg("max_chars", defaultSectionMaxChars))
	case funcContextChapterSummaries:
		value = headChars(data.Sections.ChapterSummaries, numericArg("max_chars", defaultSectionMaxChars))
	}
	return value, warnings
}

// parseArgs parses a comma-separated key=value list. Whitespace around keys,
// values, '=' and ',' is ignored. Malformed pairs are dropped; the numeric
// validation downstream reports them as missing.
func parseArgs(raw string) map[string]string {
	args := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		args[key] = strings.TrimSpace(value)
	}
	return args
}

func parseNonNegativeInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// tailChars returns the trailing n characters of s, measured in runes.
func tailChars(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}

// headChars returns the leading n characters of s, measured in runes.
func headChars(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
