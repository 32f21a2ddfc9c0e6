package handlers

import (
	"context"

	"github.com/mihirp5027/Odoo-RoadGuard-404-Not-Found/internal/models"
	"github.com/mihirp5027/Odoo-RoadGuard-404-Not-Found/internal/workflow"
)

// WorkflowService is the set of workflow operations exposed over HTTP.
type WorkflowService interface {
	AssignWorker(ctx context.Context, actor workflow.Actor, input models.AssignWorkerInput) (*workflow.Assignment, error)
	CompleteTask(ctx context.Context, actor workflow.Actor, requestID string) (*workflow.Assignment, error)
	UpdateRequestStatus(ctx context.Context, actor workflow.Actor, requestID string, input models.StatusUpdateInput) (*models.ServiceRequest, error)

	CreateRequest(ctx context.Context, actor workflow.Actor, input models.CreateRequestInput) (*models.ServiceRequest, error)
	CancelRequest(ctx context.Context, actor workflow.Actor, requestID string) (*models.ServiceRequest, error)
	ListUserRequests(ctx context.Context, actor workflow.Actor) ([]models.ServiceRequest, error)
	ListMechanicRequests(ctx context.Context, actor workflow.Actor, status string) ([]models.ServiceRequest, error)

	AddWorker(ctx context.Context, actor workflow.Actor, input models.CreateWorkerInput) (*models.Worker, error)
	ListWorkers(ctx context.Context, actor workflow.Actor) ([]models.WorkerView, error)
	ListAvailableWorkers(ctx context.Context, actor workflow.Actor) ([]models.Worker, error)
	UpdateWorker(ctx context.Context, actor workflow.Actor, workerID string, input models.UpdateWorkerInput) (*models.Worker, error)
	DeleteWorker(ctx context.Context, actor workflow.Actor, workerID string) error

	WorkerProfile(ctx context.Context, actor workflow.Actor) (*models.WorkerProfile, error)
	CurrentTask(ctx context.Context, actor workflow.Actor) (*models.ServiceRequest, error)
	CompletedTasks(ctx context.Context, actor workflow.Actor) ([]models.ServiceRequest, error)
}

// Handler serves the mechanic, worker and user APIs
type Handler struct {
	svc           WorkflowService
	exposeDetails bool
}

// NewHandler creates a new handler. exposeDetails adds internal error
// details to 500 responses and should only be set in development.
func NewHandler(svc WorkflowService, exposeDetails bool) *Handler {
	return &Handler{
		svc:           svc,
		exposeDetails: exposeDetails,
	}
}
