package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkerStatus is a worker's availability.
type WorkerStatus string

const (
	WorkerAvailable WorkerStatus = "available"
	WorkerWorking   WorkerStatus = "working"
	WorkerOffline   WorkerStatus = "offline"
)

// IsValidWorkerStatus checks if a worker status is valid
func IsValidWorkerStatus(status WorkerStatus) bool {
	switch status {
	case WorkerAvailable, WorkerWorking, WorkerOffline:
		return true
	default:
		return false
	}
}

// Worker represents a laborer on a mechanic's roster.
type Worker struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Name           string               `bson:"name" json:"name"`
	MobileNumber   string               `bson:"mobile_number" json:"mobileNumber"`
	MechanicID     primitive.ObjectID   `bson:"mechanic_id" json:"mechanicId"`
	IsActive       bool                 `bson:"is_active" json:"isActive"`
	CurrentStatus  WorkerStatus         `bson:"current_status" json:"currentStatus"`
	CurrentTask    *primitive.ObjectID  `bson:"current_task" json:"currentTask"`
	CompletedTasks []primitive.ObjectID `bson:"completed_tasks" json:"completedTasks"`
	CreatedAt      time.Time            `bson:"created_at" json:"createdAt"`
	LastActive     time.Time            `bson:"last_active" json:"lastActive"`
}

// HasTask reports whether the worker currently holds a request.
func (w *Worker) HasTask() bool {
	return w.CurrentTask != nil && !w.CurrentTask.IsZero()
}

// IsAssignable reports whether the worker can take a new request.
func (w *Worker) IsAssignable() bool {
	return w.IsActive && w.CurrentStatus == WorkerAvailable && !w.HasTask()
}

// WorkerView is a roster entry with its current task resolved.
type WorkerView struct {
	Worker
	CurrentTask *TaskSummary `json:"currentTask"`
}

// WorkerProfile is the worker-facing view with tasks populated.
type WorkerProfile struct {
	Worker
	CurrentTask    *ServiceRequest  `json:"currentTask"`
	CompletedTasks []ServiceRequest `json:"completedTasks"`
}

// CreateWorkerInput is the body of POST /api/mechanic/workers.
type CreateWorkerInput struct {
	Name         string `json:"name"`
	MobileNumber string `json:"mobileNumber"`
}

// UpdateWorkerInput is the body of PUT /api/mechanic/workers/{id}.
// Nil fields are left untouched.
type UpdateWorkerInput struct {
	Name          *string       `json:"name,omitempty"`
	IsActive      *bool         `json:"isActive,omitempty"`
	CurrentStatus *WorkerStatus `json:"currentStatus,omitempty"`
}
