package template

// Built-in default templates, used as the fallback when a user template is
// empty. They reference only standard variables so they always render.

// DefaultBeatTemplate drives scene continuation from a beat.
const DefaultBeatTemplate = `You are co-writing "{{project_title}}".

Story context:
{{context}}

Current chapter: {{chapter_title}}
Current scene: {{scene_title}}

Recent scene text:
{{scene_tail(chars=3000)}}

Write what happens next: {{beat}}`

// DefaultWorkshopTemplate drives the workshop chat.
const DefaultWorkshopTemplate = `You are a writing assistant for "{{project_title}}".

Story context:
{{context}}

Conversation so far:
{{chat_history(turns=12)}}`
