package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequestStatus is the lifecycle state of a service request.
type RequestStatus string

const (
	StatusPending    RequestStatus = "Pending"
	StatusAccepted   RequestStatus = "Accepted"
	StatusRejected   RequestStatus = "Rejected"
	StatusAssigned   RequestStatus = "Assigned"
	StatusOnTheWay   RequestStatus = "OnTheWay"
	StatusInProgress RequestStatus = "InProgress"
	StatusCompleted  RequestStatus = "Completed"
	StatusCancelled  RequestStatus = "Cancelled"
)

// IsValidRequestStatus checks if a status is one of the known request states
func IsValidRequestStatus(status RequestStatus) bool {
	switch status {
	case StatusPending, StatusAccepted, StatusRejected, StatusAssigned,
		StatusOnTheWay, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further mutation is allowed.
func (s RequestStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusRejected || s == StatusCancelled
}

// ServiceType is the kind of roadside help requested.
type ServiceType string

const (
	ServiceMechanic ServiceType = "mechanic"
	ServiceTowing   ServiceType = "towing"
	ServiceFuel     ServiceType = "fuel"
	ServiceMedical  ServiceType = "medical"
)

// IsValidServiceType checks if a service type is supported
func IsValidServiceType(t ServiceType) bool {
	switch t {
	case ServiceMechanic, ServiceTowing, ServiceFuel, ServiceMedical:
		return true
	default:
		return false
	}
}

// ServiceRequest represents a customer's request for roadside assistance.
type ServiceRequest struct {
	ID                   primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	UserID               primitive.ObjectID  `bson:"user_id" json:"userId"`
	MechanicID           primitive.ObjectID  `bson:"mechanic_id" json:"mechanicId"`
	VehicleID            primitive.ObjectID  `bson:"vehicle_id" json:"vehicleId"`
	ServiceType          ServiceType         `bson:"service_type" json:"serviceType"`
	Description          string              `bson:"description" json:"description"`
	Location             GeoPoint            `bson:"location" json:"location"`
	Status               RequestStatus       `bson:"status" json:"status"`
	AssignedWorker       *primitive.ObjectID `bson:"assigned_worker,omitempty" json:"assignedWorker,omitempty"`
	EstimatedArrivalTime *time.Time          `bson:"estimated_arrival_time,omitempty" json:"estimatedArrivalTime,omitempty"`
	CompletedAt          *time.Time          `bson:"completed_at,omitempty" json:"completedAt,omitempty"`
	CancelledAt          *time.Time          `bson:"cancelled_at,omitempty" json:"cancelledAt,omitempty"`
	CreatedAt            time.Time           `bson:"created_at" json:"createdAt"`
	UpdatedAt            time.Time           `bson:"updated_at" json:"updatedAt"`
}

// TaskSummary is the slice of a request shown next to a worker in roster listings.
type TaskSummary struct {
	ID          primitive.ObjectID `json:"_id"`
	ServiceType ServiceType        `json:"serviceType"`
	Status      RequestStatus      `json:"status"`
	Location    GeoPoint           `json:"location"`
	VehicleID   primitive.ObjectID `json:"vehicleId"`
}

// Summary returns the roster view of the request.
func (r *ServiceRequest) Summary() *TaskSummary {
	return &TaskSummary{
		ID:          r.ID,
		ServiceType: r.ServiceType,
		Status:      r.Status,
		Location:    r.Location,
		VehicleID:   r.VehicleID,
	}
}

// CreateRequestInput is the body of a user's service request.
type CreateRequestInput struct {
	MechanicID  string         `json:"mechanicId"`
	VehicleID   string         `json:"vehicleId"`
	ServiceType ServiceType    `json:"serviceType"`
	Description string         `json:"description"`
	Location    *LocationInput `json:"location"`
}

// AssignWorkerInput is the body of POST /api/mechanic/assign-worker.
type AssignWorkerInput struct {
	WorkerID  string `json:"workerId"`
	RequestID string `json:"requestId"`
}

// StatusUpdateInput is the body of a mechanic status change.
type StatusUpdateInput struct {
	Status               RequestStatus `json:"status"`
	EstimatedArrivalTime *time.Time    `json:"estimatedArrivalTime,omitempty"`
}
