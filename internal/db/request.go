package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mihirp5027/Odoo-RoadGuard-404-Not-Found/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRequestCollection implements RequestCollection for MongoDB
type MongoRequestCollection struct {
	Collection *mongo.Collection
}

// InsertRequest inserts a new service request and fills in its id.
func (c *MongoRequestCollection) InsertRequest(ctx context.Context, req *models.ServiceRequest) error {
	if c.Collection == nil {
		return errNilColl
	}
	now := time.Now()
	if req.ID.IsZero() {
		req.ID = primitive.NewObjectID()
	}
	req.CreatedAt = now
	req.UpdatedAt = now

	_, err := c.Collection.InsertOne(ctx, req)
	return err
}

// FindRequestByID finds a service request by its ID.
func (c *MongoRequestCollection) FindRequestByID(ctx context.Context, id primitive.ObjectID) (*models.ServiceRequest, error) {
	if c.Collection == nil {
		return nil, errNilColl
	}

	var req models.ServiceRequest
	err := c.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("request %s: %w", id.Hex(), ErrNotFound)
		}
		return nil, err
	}
	return &req, nil
}

// FindRequests lists requests matching filter, newest first.
func (c *MongoRequestCollection) FindRequests(ctx context.Context, filter RequestFilter) ([]models.ServiceRequest, error) {
	if c.Collection == nil {
		return nil, errNilColl
	}

	query := bson.M{}
	if !filter.UserID.IsZero() {
		query["user_id"] = filter.UserID
	}
	if !filter.MechanicID.IsZero() {
		query["mechanic_id"] = filter.MechanicID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return c.find(ctx, query, opts)
}

// FindRequestsByIDs loads the given requests in the order of ids.
// Missing ids are skipped.
func (c *MongoRequestCollection) FindRequestsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.ServiceRequest, error) {
	if c.Collection == nil {
		return nil, errNilColl
	}
	if len(ids) == 0 {
		return []models.ServiceRequest{}, nil
	}

	found, err := c.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]models.ServiceRequest, len(found))
	for _, r := range found {
		byID[r.ID] = r
	}
	ordered := make([]models.ServiceRequest, 0, len(found))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			ordered = append(ordered, r)
		}
	}
	return ordered, nil
}

// TransitionRequest moves a request out of status from. It fails with
// ErrConflict if the request is no longer in that status.
func (c *MongoRequestCollection) TransitionRequest(ctx context.Context, id primitive.ObjectID, from models.RequestStatus, update RequestUpdate) (*models.ServiceRequest, error) {
	if c.Collection == nil {
		return nil, errNilColl
	}

	set := bson.M{
		"status":     update.Status,
		"updated_at": time.Now(),
	}
	if update.AssignedWorker != nil {
		set["assigned_worker"] = *update.AssignedWorker
	}
	if update.EstimatedArrivalTime != nil {
		set["estimated_arrival_time"] = *update.EstimatedArrivalTime
	}
	if update.CompletedAt != nil {
		set["completed_at"] = *update.CompletedAt
	}
	if update.CancelledAt != nil {
		set["cancelled_at"] = *update.CancelledAt
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var req models.ServiceRequest
	err := c.Collection.FindOneAndUpdate(ctx, bson.M{"_id": id, "status": from}, bson.M{"$set": set}, opts).Decode(&req)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("request %s left %s: %w", id.Hex(), from, ErrConflict)
		}
		return nil, err
	}
	return &req, nil
}

func (c *MongoRequestCollection) find(ctx context.Context, query bson.M, opts ...*options.FindOptions) ([]models.ServiceRequest, error) {
	cursor, err := c.Collection.Find(ctx, query, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	requests := []models.ServiceRequest{}
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}
