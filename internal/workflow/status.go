package workflow

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/mihirp5027/Odoo-RoadGuard-404-Not-Found/internal/db"
	"github.com/mihirp5027/Odoo-RoadGuard-404-Not-Found/internal/models"
)

// UpdateRequestStatus moves one of the mechanic's requests to input.Status.
// Accepted and OnTheWay carry an arrival estimate, defaulted when absent.
func (s *Service) UpdateRequestStatus(ctx context.Context, actor Actor, requestHex string, input models.StatusUpdateInput) (*models.ServiceRequest, error) {
	if err := actor.require(models.RoleMechanic); err != nil {
		return nil, err
	}
	requestID, err := parseID(requestHex, "Invalid request ID")
	if err != nil {
		return nil, err
	}
	if !models.IsValidRequestStatus(input.Status) {
		return nil, newError(KindValidation, "Invalid status")
	}
	if input.Status == models.StatusAssigned {
		return nil, newError(KindValidation, "Use assign-worker to assign a worker")
	}

	req, err := s.requests.FindRequestByID(ctx, requestID)
	if err != nil {
		return nil, storeError(err, "Service request not found")
	}
	if req.MechanicID != actor.ID {
		return nil, newError(KindNotFound, "Service request not found")
	}

	action, ok := actionFor(actor.Role, req.Status, input.Status)
	if !ok {
		return nil, newError(KindIneligible, fmt.Sprintf("Cannot change status from %s to %s", req.Status, input.Status))
	}

	var update db.RequestUpdate
	if input.Status == models.StatusAccepted || input.Status == models.StatusOnTheWay {
		eta := s.now().Add(s.defaultETA)
		if input.EstimatedArrivalTime != nil {
			eta = *input.EstimatedArrivalTime
		}
		update.EstimatedArrivalTime = &eta
	}

	updated, released, err := s.transition(ctx, req, input.Status, update)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"request_id": updated.ID.Hex(),
		"action":     action,
		"from":       req.Status,
		"to":         updated.Status,
	}).Info("Request status changed")
	s.publish(ctx, requestEvent(models.EventStatusChanged, updated))
	if released {
		s.publish(ctx, requestEvent(models.EventWorkerReleased, updated))
	}

	return updated, nil
}
