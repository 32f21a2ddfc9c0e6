package workflow

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mihirp5027/Odoo-RoadGuard-404-Not-Found/internal/db"
	"github.com/mihirp5027/Odoo-RoadGuard-404-Not-Found/internal/models"
)

// memStore is an in-memory stand-in for both Mongo collections with
// all-or-nothing transactions.
type memStore struct {
	requests map[primitive.ObjectID]models.ServiceRequest
	workers  map[primitive.ObjectID]models.Worker
	clock    time.Time

	// failTransition makes the next TransitionRequest fail.
	failTransition error
}

func newMemStore() *memStore {
	return &memStore{
		requests: map[primitive.ObjectID]models.ServiceRequest{},
		workers:  map[primitive.ObjectID]models.Worker{},
		clock:    time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	requests := make(map[primitive.ObjectID]models.ServiceRequest, len(m.requests))
	for k, v := range m.requests {
		requests[k] = v
	}
	workers := make(map[primitive.ObjectID]models.Worker, len(m.workers))
	for k, v := range m.workers {
		v.CompletedTasks = append([]primitive.ObjectID(nil), v.CompletedTasks...)
		workers[k] = v
	}
	if err := fn(ctx); err != nil {
		m.requests = requests
		m.workers = workers
		return err
	}
	return nil
}

// RequestCollection

func (m *memStore) InsertRequest(_ context.Context, req *models.ServiceRequest) error {
	if req.ID.IsZero() {
		req.ID = primitive.NewObjectID()
	}
	req.CreatedAt = m.tick()
	req.UpdatedAt = req.CreatedAt
	m.requests[req.ID] = *req
	return nil
}

func (m *memStore) FindRequestByID(_ context.Context, id primitive.ObjectID) (*models.ServiceRequest, error) {
	req, ok := m.requests[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &req, nil
}

func (m *memStore) FindRequests(_ context.Context, filter db.RequestFilter) ([]models.ServiceRequest, error) {
	out := []models.ServiceRequest{}
	for _, r := range m.requests {
		if !filter.UserID.IsZero() && r.UserID != filter.UserID {
			continue
		}
		if !filter.MechanicID.IsZero() && r.MechanicID != filter.MechanicID {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) FindRequestsByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.ServiceRequest, error) {
	out := []models.ServiceRequest{}
	for _, id := range ids {
		if r, ok := m.requests[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) TransitionRequest(_ context.Context, id primitive.ObjectID, from models.RequestStatus, update db.RequestUpdate) (*models.ServiceRequest, error) {
	if err := m.failTransition; err != nil {
		m.failTransition = nil
		return nil, err
	}
	req, ok := m.requests[id]
	if !ok || req.Status != from {
		return nil, db.ErrConflict
	}
	req.Status = update.Status
	req.UpdatedAt = m.tick()
	if update.AssignedWorker != nil {
		w := *update.AssignedWorker
		req.AssignedWorker = &w
	}
	if update.EstimatedArrivalTime != nil {
		req.EstimatedArrivalTime = update.EstimatedArrivalTime
	}
	if update.CompletedAt != nil {
		req.CompletedAt = update.CompletedAt
	}
	if update.CancelledAt != nil {
		req.CancelledAt = update.CancelledAt
	}
	m.requests[id] = req
	return &req, nil
}

// WorkerCollection

func (m *memStore) InsertWorker(_ context.Context, worker *models.Worker) error {
	for _, w := range m.workers {
		if w.MobileNumber == worker.MobileNumber {
			return db.ErrDuplicate
		}
	}
	if worker.ID.IsZero() {
		worker.ID = primitive.NewObjectID()
	}
	worker.CreatedAt = m.tick()
	worker.LastActive = worker.CreatedAt
	m.workers[worker.ID] = *worker
	return nil
}

func (m *memStore) FindWorkerByID(_ context.Context, id primitive.ObjectID) (*models.Worker, error) {
	w, ok := m.workers[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	w.CompletedTasks = append([]primitive.ObjectID(nil), w.CompletedTasks...)
	return &w, nil
}

func (m *memStore) FindWorkerByMobile(_ context.Context, mobile string) (*models.Worker, error) {
	for _, w := range m.workers {
		if w.MobileNumber == mobile {
			return &w, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *memStore) FindWorkers(_ context.Context, filter db.WorkerFilter) ([]models.Worker, error) {
	out := []models.Worker{}
	for _, w := range m.workers {
		if w.MechanicID != filter.MechanicID {
			continue
		}
		if filter.AvailableOnly && (!w.IsActive || w.CurrentStatus != models.WorkerAvailable) {
			continue
		}
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) UpdateWorker(_ context.Context, id, mechanicID primitive.ObjectID, update db.WorkerUpdate) (*models.Worker, error) {
	w, ok := m.workers[id]
	if !ok || w.MechanicID != mechanicID {
		return nil, db.ErrNotFound
	}
	if update.CurrentStatus != nil && w.HasTask() {
		return nil, db.ErrConflict
	}
	if update.Name != nil {
		w.Name = *update.Name
	}
	if update.IsActive != nil {
		w.IsActive = *update.IsActive
	}
	if update.CurrentStatus != nil {
		w.CurrentStatus = *update.CurrentStatus
	}
	w.LastActive = m.tick()
	m.workers[id] = w
	return &w, nil
}

func (m *memStore) DeleteWorker(_ context.Context, id, mechanicID primitive.ObjectID) error {
	w, ok := m.workers[id]
	if !ok || w.MechanicID != mechanicID || w.HasTask() {
		return db.ErrConflict
	}
	delete(m.workers, id)
	return nil
}

func (m *memStore) OccupyWorker(_ context.Context, workerID, requestID primitive.ObjectID) error {
	w, ok := m.workers[workerID]
	if !ok || !w.IsAssignable() {
		return db.ErrConflict
	}
	w.CurrentStatus = models.WorkerWorking
	w.CurrentTask = &requestID
	w.LastActive = m.tick()
	m.workers[workerID] = w
	return nil
}

func (m *memStore) ReleaseWorker(_ context.Context, workerID, requestID primitive.ObjectID, completed bool) error {
	w, ok := m.workers[workerID]
	if !ok || !w.HasTask() || *w.CurrentTask != requestID {
		return db.ErrConflict
	}
	w.CurrentStatus = models.WorkerAvailable
	w.CurrentTask = nil
	w.LastActive = m.tick()
	if completed && !containsID(w.CompletedTasks, requestID) {
		w.CompletedTasks = append(append([]primitive.ObjectID(nil), w.CompletedTasks...), requestID)
	}
	m.workers[workerID] = w
	return nil
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	events []models.WorkflowEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event models.WorkflowEvent) error {
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []models.EventType {
	var out []models.EventType
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// passthroughTx runs fn without a transaction. Used with mocked stores.
type passthroughTx struct{}

func (passthroughTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// MockRequestCollection is a mock implementation of db.RequestCollection
type MockRequestCollection struct {
	mock.Mock
}

func (m *MockRequestCollection) InsertRequest(ctx context.Context, req *models.ServiceRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockRequestCollection) FindRequestByID(ctx context.Context, id primitive.ObjectID) (*models.ServiceRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ServiceRequest), args.Error(1)
}

func (m *MockRequestCollection) FindRequests(ctx context.Context, filter db.RequestFilter) ([]models.ServiceRequest, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ServiceRequest), args.Error(1)
}

func (m *MockRequestCollection) FindRequestsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.ServiceRequest, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ServiceRequest), args.Error(1)
}

func (m *MockRequestCollection) TransitionRequest(ctx context.Context, id primitive.ObjectID, from models.RequestStatus, update db.RequestUpdate) (*models.ServiceRequest, error) {
	args := m.Called(ctx, id, from, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ServiceRequest), args.Error(1)
}

// MockWorkerCollection is a mock implementation of db.WorkerCollection
type MockWorkerCollection struct {
	mock.Mock
}

func (m *MockWorkerCollection) InsertWorker(ctx context.Context, worker *models.Worker) error {
	args := m.Called(ctx, worker)
	return args.Error(0)
}

func (m *MockWorkerCollection) FindWorkerByID(ctx context.Context, id primitive.ObjectID) (*models.Worker, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Worker), args.Error(1)
}

func (m *MockWorkerCollection) FindWorkerByMobile(ctx context.Context, mobile string) (*models.Worker, error) {
	args := m.Called(ctx, mobile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Worker), args.Error(1)
}

func (m *MockWorkerCollection) FindWorkers(ctx context.Context, filter db.WorkerFilter) ([]models.Worker, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Worker), args.Error(1)
}

func (m *MockWorkerCollection) UpdateWorker(ctx context.Context, id, mechanicID primitive.ObjectID, update db.WorkerUpdate) (*models.Worker, error) {
	args := m.Called(ctx, id, mechanicID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Worker), args.Error(1)
}

func (m *MockWorkerCollection) DeleteWorker(ctx context.Context, id, mechanicID primitive.ObjectID) error {
	args := m.Called(ctx, id, mechanicID)
	return args.Error(0)
}

func (m *MockWorkerCollection) OccupyWorker(ctx context.Context, workerID, requestID primitive.ObjectID) error {
	args := m.Called(ctx, workerID, requestID)
	return args.Error(0)
}

func (m *MockWorkerCollection) ReleaseWorker(ctx context.Context, workerID, requestID primitive.ObjectID, completed bool) error {
	args := m.Called(ctx, workerID, requestID, completed)
	return args.Error(0)
}

var errBoom = errors.New("boom")
