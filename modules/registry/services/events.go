package services

import "time"

// ImportCompletedEvent is published after an import reaches the reported state. Activity-log
// and notification collaborators subscribe to it.
type ImportCompletedEvent struct {
	Result      Result
	Actor       string
	CompletedAt time.Time
}
