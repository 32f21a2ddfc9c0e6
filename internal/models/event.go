package models

import "time"

// EventType names a committed workflow change.
type EventType string

const (
	EventRequestCreated EventType = "request.created"
	EventWorkerAssigned EventType = "worker.assigned"
	EventTaskCompleted  EventType = "task.completed"
	EventStatusChanged  EventType = "request.status_changed"
	EventWorkerReleased EventType = "worker.released"
)

// WorkflowEvent is published after a workflow transaction commits.
type WorkflowEvent struct {
	ID         string        `json:"id"`
	Type       EventType     `json:"type"`
	RequestID  string        `json:"requestId,omitempty"`
	WorkerID   string        `json:"workerId,omitempty"`
	MechanicID string        `json:"mechanicId,omitempty"`
	UserID     string        `json:"userId,omitempty"`
	Status     RequestStatus `json:"status,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
}
