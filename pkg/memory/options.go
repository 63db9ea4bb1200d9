package memory

// Options holds the tunable budgets of the merge protocol. All character
// counts are in runes.
type Options struct {
	// SceneSourceChars caps the scene text embedded in a scene merge call.
	SceneSourceChars int

	// ChapterSourceChars caps the total raw scene text a chapter refresh reads.
	ChapterSourceChars int

	// ChapterChunkChars caps each scene-ordered segment of a chunked
	// chapter refresh.
	ChapterChunkChars int

	// SceneSummaryChars, ChapterSummaryChars, and WorkshopSummaryChars are
	// the hard output budgets the normalized summary is truncated to.
	SceneSummaryChars    int
	ChapterSummaryChars  int
	WorkshopSummaryChars int

	// MinDeltaMessages is how many new non-empty workshop messages must be
	// pending before a refresh is worth triggering.
	MinDeltaMessages int

	// DeltaWindow bounds how many of the most recent workshop messages feed
	// a refresh as new material.
	DeltaWindow int
}

// DefaultOptions returns the production defaults.
func DefaultOptions() Options {
	return Options{
		SceneSourceChars:     12000,
		ChapterSourceChars:   18000,
		ChapterChunkChars:    6000,
		SceneSummaryChars:    2200,
		ChapterSummaryChars:  2600,
		WorkshopSummaryChars: 3200,
		MinDeltaMessages:     4,
		DeltaWindow:          18,
	}
}

// sanitize fills zero or negative fields with defaults so a partially
// configured Options never disables a cap by accident.
func (o Options) sanitize() Options {
	def := DefaultOptions()
	if o.SceneSourceChars <= 0 {
		o.SceneSourceChars = def.SceneSourceChars
	}
	if o.ChapterSourceChars <= 0 {
		o.ChapterSourceChars = def.ChapterSourceChars
	}
	if o.ChapterChunkChars <= 0 {
		o.ChapterChunkChars = def.ChapterChunkChars
	}
	if o.SceneSummaryChars <= 0 {
		o.SceneSummaryChars = def.SceneSummaryChars
	}
	if o.ChapterSummaryChars <= 0 {
		o.ChapterSummaryChars = def.ChapterSummaryChars
	}
	if o.WorkshopSummaryChars <= 0 {
		o.WorkshopSummaryChars = def.WorkshopSummaryChars
	}
	if o.MinDeltaMessages <= 0 {
		o.MinDeltaMessages = def.MinDeltaMessages
	}
	if o.DeltaWindow <= 0 {
		o.DeltaWindow = def.DeltaWindow
	}
	return o
}
