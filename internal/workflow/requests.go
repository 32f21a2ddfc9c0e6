package workflow

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/mihirp5027/Odoo-RoadGuard-404-Not-Found/internal/db"
	"github.com/mihirp5027/Odoo-RoadGuard-404-Not-Found/internal/models"
)

// CreateRequest files a new pending request from a user to a mechanic.
func (s *Service) CreateRequest(ctx context.Context, actor Actor, input models.CreateRequestInput) (*models.ServiceRequest, error) {
	if err := actor.require(models.RoleUser); err != nil {
		return nil, err
	}
	loc := input.Location
	if input.MechanicID == "" || input.VehicleID == "" || input.ServiceType == "" ||
		loc == nil || loc.Latitude == nil || loc.Longitude == nil || strings.TrimSpace(loc.Address) == "" {
		return nil, newError(KindValidation, "Missing required fields")
	}
	if !models.IsValidServiceType(input.ServiceType) {
		return nil, newError(KindValidation, "Invalid service type")
	}
	mechanicID, err := parseID(input.MechanicID, "Invalid mechanic ID")
	if err != nil {
		return nil, err
	}
	vehicleID, err := parseID(input.VehicleID, "Invalid vehicle ID")
	if err != nil {
		return nil, err
	}

	req := &models.ServiceRequest{
		UserID:      actor.ID,
		MechanicID:  mechanicID,
		VehicleID:   vehicleID,
		ServiceType: input.ServiceType,
		Description: strings.TrimSpace(input.Description),
		Location:    models.NewGeoPoint(*loc.Latitude, *loc.Longitude, strings.TrimSpace(loc.Address)),
		Status:      models.StatusPending,
	}
	if err := s.requests.InsertRequest(ctx, req); err != nil {
		return nil, internal(err)
	}

	log.WithFields(log.Fields{
		"request_id":  req.ID.Hex(),
		"mechanic_id": mechanicID.Hex(),
		"service":     req.ServiceType,
	}).Info("Service request created")
	s.publish(ctx, requestEvent(models.EventRequestCreated, req))

	return req, nil
}

// CancelRequest withdraws a user's request before work has started.
func (s *Service) CancelRequest(ctx context.Context, actor Actor, requestHex string) (*models.ServiceRequest, error) {
	if err := actor.require(models.RoleUser); err != nil {
		return nil, err
	}
	requestID, err := parseID(requestHex, "Invalid request ID")
	if err != nil {
		return nil, err
	}

	req, err := s.requests.FindRequestByID(ctx, requestID)
	if err != nil {
		return nil, storeError(err, "Service request not found")
	}
	if req.UserID != actor.ID {
		return nil, newError(KindNotFound, "Service request not found")
	}
	to, ok := Next(req.Status, ActionWithdraw)
	if !ok {
		return nil, newError(KindIneligible, "Cannot cancel request that is already in progress or completed")
	}

	updated, released, err := s.transition(ctx, req, to, db.RequestUpdate{})
	if err != nil {
		return nil, err
	}

	log.WithField("request_id", updated.ID.Hex()).Info("Service request cancelled by user")
	s.publish(ctx, requestEvent(models.EventStatusChanged, updated))
	if released {
		s.publish(ctx, requestEvent(models.EventWorkerReleased, updated))
	}
	return updated, nil
}

// ListUserRequests returns the caller's requests, newest first.
func (s *Service) ListUserRequests(ctx context.Context, actor Actor) ([]models.ServiceRequest, error) {
	if err := actor.require(models.RoleUser); err != nil {
		return nil, err
	}
	requests, err := s.requests.FindRequests(ctx, db.RequestFilter{UserID: actor.ID})
	if err != nil {
		return nil, internal(err)
	}
	return requests, nil
}

// ListMechanicRequests returns requests addressed to the mechanic,
// optionally narrowed to one status.
func (s *Service) ListMechanicRequests(ctx context.Context, actor Actor, status string) ([]models.ServiceRequest, error) {
	if err := actor.require(models.RoleMechanic); err != nil {
		return nil, err
	}
	filter := db.RequestFilter{MechanicID: actor.ID}
	if status != "" {
		filter.Status = models.RequestStatus(status)
		if !models.IsValidRequestStatus(filter.Status) {
			return nil, newError(KindValidation, "Invalid status")
		}
	}
	requests, err := s.requests.FindRequests(ctx, filter)
	if err != nil {
		return nil, internal(err)
	}
	return requests, nil
}
