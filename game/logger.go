package game

// Category groups log entries for filtering.
type Category string

const (
	CategoryAction      Category = "ACTION"
	CategoryCombat      Category = "COMBAT"
	CategoryDeployment  Category = "DEPLOYMENT"
	CategoryMovement    Category = "MOVEMENT"
	CategoryStateChange Category = "STATE_CHANGE"
	CategoryError       Category = "ERROR"
	CategoryValidation  Category = "VALIDATION"
	CategoryAI          Category = "AI"
	CategoryDebug       Category = "DEBUG"
)

// Fields is the structured payload of a log entry.
type Fields map[string]any

// Sink receives the engine's log entries. Implementations live in gamelog.
type Sink interface {
	Log(category Category, message string, fields Fields)
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) Log(Category, string, Fields) {}
