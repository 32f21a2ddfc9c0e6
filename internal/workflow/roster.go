package workflow

import (
	"context"
	"errors"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mihirp5027/Odoo-RoadGuard-404-Not-Found/internal/db"
	"github.com/mihirp5027/Odoo-RoadGuard-404-Not-Found/internal/models"
)

var mobilePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

const duplicateMobile = "Worker with this mobile number already exists"

// AddWorker puts a new available worker on the mechanic's roster.
func (s *Service) AddWorker(ctx context.Context, actor Actor, input models.CreateWorkerInput) (*models.Worker, error) {
	if err := actor.require(models.RoleMechanic); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	mobile := strings.TrimSpace(input.MobileNumber)
	if name == "" || mobile == "" {
		return nil, newError(KindValidation, "Name and mobile number are required")
	}
	if !mobilePattern.MatchString(mobile) {
		return nil, newError(KindValidation, "Invalid mobile number")
	}

	existing, err := s.workers.FindWorkerByMobile(ctx, mobile)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return nil, internal(err)
	}
	if existing != nil {
		return nil, newError(KindConflict, duplicateMobile)
	}

	worker := &models.Worker{
		Name:           name,
		MobileNumber:   mobile,
		MechanicID:     actor.ID,
		IsActive:       true,
		CurrentStatus:  models.WorkerAvailable,
		CompletedTasks: []primitive.ObjectID{},
	}
	if err := s.workers.InsertWorker(ctx, worker); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, &Error{Kind: KindConflict, Message: duplicateMobile, Err: err}
		}
		return nil, internal(err)
	}

	log.WithFields(log.Fields{
		"worker_id":   worker.ID.Hex(),
		"mechanic_id": actor.ID.Hex(),
	}).Info("Worker added")
	return worker, nil
}

// ListWorkers returns the mechanic's roster, newest first, with each
// worker's current task summarized.
func (s *Service) ListWorkers(ctx context.Context, actor Actor) ([]models.WorkerView, error) {
	if err := actor.require(models.RoleMechanic); err != nil {
		return nil, err
	}
	workers, err := s.workers.FindWorkers(ctx, db.WorkerFilter{MechanicID: actor.ID})
	if err != nil {
		return nil, internal(err)
	}

	var taskIDs []primitive.ObjectID
	for i := range workers {
		if workers[i].HasTask() {
			taskIDs = append(taskIDs, *workers[i].CurrentTask)
		}
	}
	tasks := map[primitive.ObjectID]*models.TaskSummary{}
	if len(taskIDs) > 0 {
		found, err := s.requests.FindRequestsByIDs(ctx, taskIDs)
		if err != nil {
			return nil, internal(err)
		}
		for i := range found {
			tasks[found[i].ID] = found[i].Summary()
		}
	}

	views := make([]models.WorkerView, 0, len(workers))
	for _, w := range workers {
		view := models.WorkerView{Worker: w}
		if w.HasTask() {
			view.CurrentTask = tasks[*w.CurrentTask]
		}
		views = append(views, view)
	}
	return views, nil
}

// ListAvailableWorkers returns active workers free to take a request.
func (s *Service) ListAvailableWorkers(ctx context.Context, actor Actor) ([]models.Worker, error) {
	if err := actor.require(models.RoleMechanic); err != nil {
		return nil, err
	}
	workers, err := s.workers.FindWorkers(ctx, db.WorkerFilter{MechanicID: actor.ID, AvailableOnly: true})
	if err != nil {
		return nil, internal(err)
	}
	return workers, nil
}

// UpdateWorker edits a roster entry. Status can only be toggled between
// available and offline, and only while the worker holds no task.
func (s *Service) UpdateWorker(ctx context.Context, actor Actor, workerHex string, input models.UpdateWorkerInput) (*models.Worker, error) {
	if err := actor.require(models.RoleMechanic); err != nil {
		return nil, err
	}
	workerID, err := parseID(workerHex, "Invalid worker ID")
	if err != nil {
		return nil, err
	}

	update := db.WorkerUpdate{IsActive: input.IsActive}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, newError(KindValidation, "Name cannot be empty")
		}
		update.Name = &name
	}
	if input.CurrentStatus != nil {
		st := *input.CurrentStatus
		if st != models.WorkerAvailable && st != models.WorkerOffline {
			return nil, newError(KindValidation, "Worker status can only be set to available or offline")
		}
		update.CurrentStatus = &st
	}

	worker, err := s.ownedWorker(ctx, actor, workerID)
	if err != nil {
		return nil, err
	}
	if update.CurrentStatus != nil && worker.HasTask() {
		return nil, newError(KindIneligible, "Cannot change status of a worker with a current task")
	}

	updated, err := s.workers.UpdateWorker(ctx, workerID, actor.ID, update)
	if err != nil {
		return nil, storeError(err, "Worker not found")
	}

	log.WithField("worker_id", workerID.Hex()).Info("Worker updated")
	return updated, nil
}

// DeleteWorker removes an idle worker from the roster.
func (s *Service) DeleteWorker(ctx context.Context, actor Actor, workerHex string) error {
	if err := actor.require(models.RoleMechanic); err != nil {
		return err
	}
	workerID, err := parseID(workerHex, "Invalid worker ID")
	if err != nil {
		return err
	}

	worker, err := s.ownedWorker(ctx, actor, workerID)
	if err != nil {
		return err
	}
	if worker.HasTask() {
		return newError(KindIneligible, "Cannot delete a worker with a current task")
	}

	if err := s.workers.DeleteWorker(ctx, workerID, actor.ID); err != nil {
		return storeError(err, "Worker not found")
	}

	log.WithField("worker_id", workerID.Hex()).Info("Worker deleted")
	return nil
}

func (s *Service) ownedWorker(ctx context.Context, actor Actor, id primitive.ObjectID) (*models.Worker, error) {
	worker, err := s.workers.FindWorkerByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Worker not found")
	}
	if worker.MechanicID != actor.ID {
		return nil, newError(KindNotFound, "Worker not found")
	}
	return worker, nil
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
