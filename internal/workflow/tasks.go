package workflow

import (
	"context"
	"errors"

	"github.com/mihirp5027/Odoo-RoadGuard-404-Not-Found/internal/db"
	"github.com/mihirp5027/Odoo-RoadGuard-404-Not-Found/internal/models"
)

// WorkerProfile returns the calling worker with their tasks populated.
func (s *Service) WorkerProfile(ctx context.Context, actor Actor) (*models.WorkerProfile, error) {
	worker, err := s.self(ctx, actor)
	if err != nil {
		return nil, err
	}
	current, err := s.currentTask(ctx, worker)
	if err != nil {
		return nil, err
	}
	completed, err := s.requests.FindRequestsByIDs(ctx, worker.CompletedTasks)
	if err != nil {
		return nil, internal(err)
	}
	return &models.WorkerProfile{Worker: *worker, CurrentTask: current, CompletedTasks: completed}, nil
}

// CurrentTask returns the request the calling worker holds, or nil.
func (s *Service) CurrentTask(ctx context.Context, actor Actor) (*models.ServiceRequest, error) {
	worker, err := s.self(ctx, actor)
	if err != nil {
		return nil, err
	}
	return s.currentTask(ctx, worker)
}

// CompletedTasks returns the calling worker's finished requests in completion order.
func (s *Service) CompletedTasks(ctx context.Context, actor Actor) ([]models.ServiceRequest, error) {
	worker, err := s.self(ctx, actor)
	if err != nil {
		return nil, err
	}
	tasks, err := s.requests.FindRequestsByIDs(ctx, worker.CompletedTasks)
	if err != nil {
		return nil, internal(err)
	}
	return tasks, nil
}

func (s *Service) self(ctx context.Context, actor Actor) (*models.Worker, error) {
	if err := actor.require(models.RoleWorker); err != nil {
		return nil, err
	}
	worker, err := s.workers.FindWorkerByID(ctx, actor.ID)
	if err != nil {
		return nil, storeError(err, "Worker not found")
	}
	return worker, nil
}

func (s *Service) currentTask(ctx context.Context, worker *models.Worker) (*models.ServiceRequest, error) {
	if !worker.HasTask() {
		return nil, nil
	}
	req, err := s.requests.FindRequestByID(ctx, *worker.CurrentTask)
	if errors.Is(err, db.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, internal(err)
	}
	return req, nil
}
