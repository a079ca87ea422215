package tracing

// Span names.
const (
	SpanPlaybackSession = "playback.session"
	SpanGrammarLoad     = "grammar.load"
)

// Span attribute keys.
const (
	AttrSessionID    = "session.id"
	AttrLanguage     = "language"
	AttrTargetUnits  = "target.units"
	AttrSpeed        = "playback.speed"
	AttrTicks        = "playback.ticks"
	AttrOutcome      = "playback.outcome"
	AttrGrammarFound = "grammar.found"
)

// Outcome values recorded on AttrOutcome.
const (
	OutcomeCompleted = "completed"
	OutcomeCancelled = "cancelled"
)
