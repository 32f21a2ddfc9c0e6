package db

import (
	"context"
	"errors"
	"time"

	"github.com/mihirp5027/Odoo-RoadGuard-404-Not-Found/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrConflict  = errors.New("document changed concurrently")
	ErrDuplicate = errors.New("duplicate key")
	errNilColl   = errors.New("mongo collection is nil")
)

// RequestFilter narrows a service request listing. Zero fields are ignored.
type RequestFilter struct {
	UserID     primitive.ObjectID
	MechanicID primitive.ObjectID
	Status     models.RequestStatus
}

// RequestUpdate is applied by TransitionRequest together with the new status.
type RequestUpdate struct {
	Status               models.RequestStatus
	AssignedWorker       *primitive.ObjectID
	EstimatedArrivalTime *time.Time
	CompletedAt          *time.Time
	CancelledAt          *time.Time
}

// RequestCollection defines the interface for service request operations.
type RequestCollection interface {
	InsertRequest(ctx context.Context, req *models.ServiceRequest) error
	FindRequestByID(ctx context.Context, id primitive.ObjectID) (*models.ServiceRequest, error)
	FindRequests(ctx context.Context, filter RequestFilter) ([]models.ServiceRequest, error)
	FindRequestsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.ServiceRequest, error)
	// TransitionRequest applies update only while the request is still in status from.
	TransitionRequest(ctx context.Context, id primitive.ObjectID, from models.RequestStatus, update RequestUpdate) (*models.ServiceRequest, error)
}

// WorkerFilter narrows a roster listing.
type WorkerFilter struct {
	MechanicID    primitive.ObjectID
	AvailableOnly bool
}

// WorkerUpdate holds roster edits. Nil fields are left untouched.
type WorkerUpdate struct {
	Name          *string
	IsActive      *bool
	CurrentStatus *models.WorkerStatus
}

// WorkerCollection defines the interface for worker roster operations.
type WorkerCollection interface {
	InsertWorker(ctx context.Context, worker *models.Worker) error
	FindWorkerByID(ctx context.Context, id primitive.ObjectID) (*models.Worker, error)
	FindWorkerByMobile(ctx context.Context, mobile string) (*models.Worker, error)
	FindWorkers(ctx context.Context, filter WorkerFilter) ([]models.Worker, error)
	UpdateWorker(ctx context.Context, id, mechanicID primitive.ObjectID, update WorkerUpdate) (*models.Worker, error)
	DeleteWorker(ctx context.Context, id, mechanicID primitive.ObjectID) error
	// OccupyWorker marks an available, idle, active worker as working on requestID.
	OccupyWorker(ctx context.Context, workerID, requestID primitive.ObjectID) error
	// ReleaseWorker frees a worker still holding requestID. When completed is
	// true the request is appended to the worker's history once.
	ReleaseWorker(ctx context.Context, workerID, requestID primitive.ObjectID, completed bool) error
}

// Transactor runs fn so that every store call made with the passed context
// commits or aborts together.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
