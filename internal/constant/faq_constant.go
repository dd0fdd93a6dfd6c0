package constant

const (
	HelpRequestStatusPending  = "pending"
	HelpRequestStatusResolved = "resolved"
)

const (
	EventHelpRequested = "HELP_REQUESTED"
	EventHelpResolved  = "HELP_RESOLVED"
)

// Embedding task types passed through to the provider.
const (
	EmbeddingTaskQuery    = "RETRIEVAL_QUERY"
	EmbeddingTaskDocument = "RETRIEVAL_DOCUMENT"
)
