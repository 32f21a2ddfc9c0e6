// Package workflow implements the request lifecycle: intake, worker
// assignment, status changes and completion, and the mechanic's roster.
package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mihirp5027/Odoo-RoadGuard-404-Not-Found/internal/db"
	"github.com/mihirp5027/Odoo-RoadGuard-404-Not-Found/internal/models"
	"github.com/mihirp5027/Odoo-RoadGuard-404-Not-Found/internal/notify"
)

const publishTimeout = 5 * time.Second

// DefaultETA is used when a mechanic accepts or departs without an arrival time.
const DefaultETA = 15 * time.Minute

// Service coordinates the request and worker stores.
type Service struct {
	requests   db.RequestCollection
	workers    db.WorkerCollection
	tx         db.Transactor
	events     notify.Publisher
	defaultETA time.Duration
	now        func() time.Time
}

// NewService creates a workflow service. A nil publisher disables events.
func NewService(requests db.RequestCollection, workers db.WorkerCollection, tx db.Transactor, events notify.Publisher, defaultETA time.Duration) *Service {
	if events == nil {
		events = notify.NopPublisher{}
	}
	if defaultETA <= 0 {
		defaultETA = DefaultETA
	}
	return &Service{
		requests:   requests,
		workers:    workers,
		tx:         tx,
		events:     events,
		defaultETA: defaultETA,
		now:        time.Now,
	}
}

// publish sends event after commit. Failures are logged only.
func (s *Service) publish(ctx context.Context, event models.WorkflowEvent) {
	event.ID = uuid.NewString()
	event.Timestamp = s.now()

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.events.Publish(pubCtx, event); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"event":      event.Type,
			"request_id": event.RequestID,
		}).Warn("Failed to publish workflow event")
	}
}

func requestEvent(t models.EventType, req *models.ServiceRequest) models.WorkflowEvent {
	event := models.WorkflowEvent{
		Type:       t,
		RequestID:  req.ID.Hex(),
		MechanicID: req.MechanicID.Hex(),
		UserID:     req.UserID.Hex(),
		Status:     req.Status,
	}
	if req.AssignedWorker != nil {
		event.WorkerID = req.AssignedWorker.Hex()
	}
	return event
}

func parseID(hex, msg string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, newError(KindValidation, msg)
	}
	return id, nil
}

// storeError converts a store failure into a workflow error.
func storeError(err error, notFound string) error {
	var wfErr *Error
	switch {
	case errors.As(err, &wfErr):
		return wfErr
	case errors.Is(err, db.ErrNotFound):
		return &Error{Kind: KindNotFound, Message: notFound, Err: err}
	case errors.Is(err, db.ErrConflict):
		return &Error{Kind: KindConflict, Message: "Request state changed, please retry", Err: err}
	default:
		return internal(err)
	}
}

// transition moves req to status to and, for terminal statuses, frees the
// worker holding it. Both writes commit together. Returns the updated
// request and whether a worker was released.
func (s *Service) transition(ctx context.Context, req *models.ServiceRequest, to models.RequestStatus, update db.RequestUpdate) (*models.ServiceRequest, bool, error) {
	now := s.now()
	update.Status = to
	switch to {
	case models.StatusCompleted:
		update.CompletedAt = &now
	case models.StatusCancelled:
		update.CancelledAt = &now
	}

	var (
		updated  *models.ServiceRequest
		released bool
	)
	err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		released = false
		var err error
		updated, err = s.requests.TransitionRequest(txCtx, req.ID, req.Status, update)
		if err != nil {
			return err
		}
		if !to.IsTerminal() || req.AssignedWorker == nil {
			return nil
		}
		err = s.workers.ReleaseWorker(txCtx, *req.AssignedWorker, req.ID, to == models.StatusCompleted)
		switch {
		case err == nil:
			released = true
		case errors.Is(err, db.ErrConflict):
			// the worker no longer holds this request
		default:
			return err
		}
		return nil
	})
	if err != nil {
		return nil, false, storeError(err, "Service request not found")
	}
	return updated, released, nil
}
