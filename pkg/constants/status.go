package constants

// Asset lifecycle statuses. Transitions are driven exclusively by the
// ingestion pipeline and the explicit retry/reprocess commands.
const (
	StatusProcessing = "processing"
	StatusReady      = "ready"
	StatusError      = "error"
)

const StatusOK = "ok"
