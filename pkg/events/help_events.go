package events

import "time"

// NewHelpRequested is emitted when a question escalates to a supervisor.
// Delivery is fire-and-forget: the escalation itself never depends on it.
func NewHelpRequested(requestId uint, question string) Event {
	return BaseEvent{
		Type: "HELP_REQUESTED",
		Data: map[string]interface{}{
			"request_id": requestId,
			"question":   question,
		},
		OccurredAt: time.Now(),
	}
}

// NewHelpResolved is emitted after a supervisor answer has been persisted.
func NewHelpResolved(requestId uint, question string, response string) Event {
	return BaseEvent{
		Type: "HELP_RESOLVED",
		Data: map[string]interface{}{
			"request_id": requestId,
			"question":   question,
			"response":   response,
		},
		OccurredAt: time.Now(),
	}
}
