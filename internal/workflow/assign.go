package workflow

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/mihirp5027/Odoo-RoadGuard-404-Not-Found/internal/db"
	"github.com/mihirp5027/Odoo-RoadGuard-404-Not-Found/internal/models"
)

// Assignment is the state of both entities after a successful assignment.
type Assignment struct {
	Worker  *models.Worker         `json:"worker"`
	Request *models.ServiceRequest `json:"request"`
}

// AssignWorker binds one of the mechanic's available workers to one of the
// mechanic's pending requests. Nothing is written unless both checks pass.
func (s *Service) AssignWorker(ctx context.Context, actor Actor, input models.AssignWorkerInput) (*Assignment, error) {
	if err := actor.require(models.RoleMechanic); err != nil {
		return nil, err
	}
	if input.WorkerID == "" || input.RequestID == "" {
		return nil, newError(KindValidation, "Worker ID and request ID are required")
	}
	workerID, err := parseID(input.WorkerID, "Invalid worker ID")
	if err != nil {
		return nil, err
	}
	requestID, err := parseID(input.RequestID, "Invalid request ID")
	if err != nil {
		return nil, err
	}

	worker, err := s.workers.FindWorkerByID(ctx, workerID)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return nil, internal(err)
	}
	if worker == nil || worker.MechanicID != actor.ID || !worker.IsActive {
		return nil, newError(KindNotFound, "Worker not found or inactive")
	}
	if !worker.IsAssignable() {
		return nil, newError(KindIneligible, "Worker is not available")
	}

	req, err := s.requests.FindRequestByID(ctx, requestID)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return nil, internal(err)
	}
	if req == nil || req.MechanicID != actor.ID {
		return nil, newError(KindNotFound, "Service request not found or not pending")
	}
	to, ok := Next(req.Status, ActionAssign)
	if !ok {
		return nil, newError(KindNotFound, "Service request not found or not pending")
	}

	var updated *models.ServiceRequest
	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.workers.OccupyWorker(txCtx, worker.ID, req.ID); err != nil {
			return err
		}
		var err error
		updated, err = s.requests.TransitionRequest(txCtx, req.ID, req.Status, db.RequestUpdate{
			Status:         to,
			AssignedWorker: &worker.ID,
		})
		return err
	})
	if err != nil {
		return nil, storeError(err, "Service request not found or not pending")
	}

	worker.CurrentStatus = models.WorkerWorking
	worker.CurrentTask = &updated.ID
	worker.LastActive = s.now()

	log.WithFields(log.Fields{
		"worker_id":   worker.ID.Hex(),
		"request_id":  updated.ID.Hex(),
		"mechanic_id": actor.ID.Hex(),
	}).Info("Worker assigned")
	s.publish(ctx, requestEvent(models.EventWorkerAssigned, updated))

	return &Assignment{Worker: worker, Request: updated}, nil
}

// CompleteTask lets a worker finish the request they currently hold.
// The worker returns to available with the request added to their history.
func (s *Service) CompleteTask(ctx context.Context, actor Actor, requestHex string) (*Assignment, error) {
	if err := actor.require(models.RoleWorker); err != nil {
		return nil, err
	}
	requestID, err := parseID(requestHex, "Invalid request ID")
	if err != nil {
		return nil, err
	}

	worker, err := s.workers.FindWorkerByID(ctx, actor.ID)
	if err != nil {
		return nil, storeError(err, "Worker not found")
	}
	if !worker.HasTask() || *worker.CurrentTask != requestID {
		return nil, newError(KindUnauthorized, "This task is not currently assigned to the worker")
	}

	req, err := s.requests.FindRequestByID(ctx, requestID)
	if err != nil {
		return nil, storeError(err, "Service request not found")
	}
	to, ok := Next(req.Status, ActionComplete)
	if !ok {
		return nil, newError(KindIneligible, "Cannot complete a request in status "+string(req.Status))
	}

	now := s.now()
	var updated *models.ServiceRequest
	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		updated, err = s.requests.TransitionRequest(txCtx, req.ID, req.Status, db.RequestUpdate{
			Status:      to,
			CompletedAt: &now,
		})
		if err != nil {
			return err
		}
		return s.workers.ReleaseWorker(txCtx, worker.ID, req.ID, true)
	})
	if err != nil {
		return nil, storeError(err, "Service request not found")
	}

	worker.CurrentStatus = models.WorkerAvailable
	worker.CurrentTask = nil
	worker.LastActive = now
	if !containsID(worker.CompletedTasks, req.ID) {
		worker.CompletedTasks = append(worker.CompletedTasks, req.ID)
	}

	log.WithFields(log.Fields{
		"worker_id":  worker.ID.Hex(),
		"request_id": req.ID.Hex(),
	}).Info("Task completed")
	event := requestEvent(models.EventTaskCompleted, updated)
	event.WorkerID = worker.ID.Hex()
	s.publish(ctx, event)

	return &Assignment{Worker: worker, Request: updated}, nil
}
