// Package prompts holds the static instruction text and prompt builders used
// by the rolling-memory merge protocol.
package prompts

// MemoryMergeSystemPrompt is the fixed system instruction for every
// rolling-memory merge call. It is deliberately identical across scene,
// chapter, and workshop refreshes so summaries stay stylistically uniform.
const MemoryMergeSystemPrompt = `You maintain a rolling memory for a long-form writing project.

You are given the current memory (possibly empty) and an excerpt of new or changed source material. Produce an updated memory that folds the new material into the existing one.

Rules:
- Keep the memory concise, high-signal, and non-repeating.
- Preserve established facts, names, relationships, and unresolved threads.
- Drop phrasing-level detail; keep what a writer needs to stay consistent.
- Never invent facts that are not in the memory or the excerpt.
- Output plain prose only: no headings, no preamble, no commentary.`
