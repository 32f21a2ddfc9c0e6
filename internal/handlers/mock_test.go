package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mihirp5027/Odoo-RoadGuard-404-Not-Found/internal/models"
	"github.com/mihirp5027/Odoo-RoadGuard-404-Not-Found/internal/workflow"
)

// MockWorkflowService is a mock implementation of WorkflowService
type MockWorkflowService struct {
	mock.Mock
}

func (m *MockWorkflowService) AssignWorker(ctx context.Context, actor workflow.Actor, input models.AssignWorkerInput) (*workflow.Assignment, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workflow.Assignment), args.Error(1)
}

func (m *MockWorkflowService) CompleteTask(ctx context.Context, actor workflow.Actor, requestID string) (*workflow.Assignment, error) {
	args := m.Called(ctx, actor, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workflow.Assignment), args.Error(1)
}

func (m *MockWorkflowService) UpdateRequestStatus(ctx context.Context, actor workflow.Actor, requestID string, input models.StatusUpdateInput) (*models.ServiceRequest, error) {
	args := m.Called(ctx, actor, requestID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ServiceRequest), args.Error(1)
}

func (m *MockWorkflowService) CreateRequest(ctx context.Context, actor workflow.Actor, input models.CreateRequestInput) (*models.ServiceRequest, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ServiceRequest), args.Error(1)
}

func (m *MockWorkflowService) CancelRequest(ctx context.Context, actor workflow.Actor, requestID string) (*models.ServiceRequest, error) {
	args := m.Called(ctx, actor, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ServiceRequest), args.Error(1)
}

func (m *MockWorkflowService) ListUserRequests(ctx context.Context, actor workflow.Actor) ([]models.ServiceRequest, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ServiceRequest), args.Error(1)
}

func (m *MockWorkflowService) ListMechanicRequests(ctx context.Context, actor workflow.Actor, status string) ([]models.ServiceRequest, error) {
	args := m.Called(ctx, actor, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ServiceRequest), args.Error(1)
}

func (m *MockWorkflowService) AddWorker(ctx context.Context, actor workflow.Actor, input models.CreateWorkerInput) (*models.Worker, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Worker), args.Error(1)
}

func (m *MockWorkflowService) ListWorkers(ctx context.Context, actor workflow.Actor) ([]models.WorkerView, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WorkerView), args.Error(1)
}

func (m *MockWorkflowService) ListAvailableWorkers(ctx context.Context, actor workflow.Actor) ([]models.Worker, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Worker), args.Error(1)
}

func (m *MockWorkflowService) UpdateWorker(ctx context.Context, actor workflow.Actor, workerID string, input models.UpdateWorkerInput) (*models.Worker, error) {
	args := m.Called(ctx, actor, workerID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Worker), args.Error(1)
}

func (m *MockWorkflowService) DeleteWorker(ctx context.Context, actor workflow.Actor, workerID string) error {
	args := m.Called(ctx, actor, workerID)
	return args.Error(0)
}

func (m *MockWorkflowService) WorkerProfile(ctx context.Context, actor workflow.Actor) (*models.WorkerProfile, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkerProfile), args.Error(1)
}

func (m *MockWorkflowService) CurrentTask(ctx context.Context, actor workflow.Actor) (*models.ServiceRequest, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ServiceRequest), args.Error(1)
}

func (m *MockWorkflowService) CompletedTasks(ctx context.Context, actor workflow.Actor) ([]models.ServiceRequest, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ServiceRequest), args.Error(1)
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }
