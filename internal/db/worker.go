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

// MongoWorkerCollection implements WorkerCollection for MongoDB
type MongoWorkerCollection struct {
	Collection *mongo.Collection
}

// InsertWorker inserts a new worker. A taken mobile number yields ErrDuplicate.
func (c *MongoWorkerCollection) InsertWorker(ctx context.Context, worker *models.Worker) error {
	if c.Collection == nil {
		return errNilColl
	}
	now := time.Now()
	if worker.ID.IsZero() {
		worker.ID = primitive.NewObjectID()
	}
	if worker.CompletedTasks == nil {
		worker.CompletedTasks = []primitive.ObjectID{}
	}
	worker.CreatedAt = now
	worker.LastActive = now

	_, err := c.Collection.InsertOne(ctx, worker)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("worker mobile %s: %w", worker.MobileNumber, ErrDuplicate)
	}
	return err
}

// FindWorkerByID finds a worker by its ID.
func (c *MongoWorkerCollection) FindWorkerByID(ctx context.Context, id primitive.ObjectID) (*models.Worker, error) {
	return c.findOne(ctx, bson.M{"_id": id})
}

// FindWorkerByMobile finds a worker by mobile number.
func (c *MongoWorkerCollection) FindWorkerByMobile(ctx context.Context, mobile string) (*models.Worker, error) {
	return c.findOne(ctx, bson.M{"mobile_number": mobile})
}

// FindWorkers lists a mechanic's roster, newest first.
func (c *MongoWorkerCollection) FindWorkers(ctx context.Context, filter WorkerFilter) ([]models.Worker, error) {
	if c.Collection == nil {
		return nil, errNilColl
	}

	query := bson.M{"mechanic_id": filter.MechanicID}
	if filter.AvailableOnly {
		query["is_active"] = true
		query["current_status"] = models.WorkerAvailable
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := c.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	workers := []models.Worker{}
	if err := cursor.All(ctx, &workers); err != nil {
		return nil, err
	}
	return workers, nil
}

// UpdateWorker applies roster edits and touches last_active. A status edit
// only applies while the worker holds no task; otherwise ErrConflict.
func (c *MongoWorkerCollection) UpdateWorker(ctx context.Context, id, mechanicID primitive.ObjectID, update WorkerUpdate) (*models.Worker, error) {
	if c.Collection == nil {
		return nil, errNilColl
	}

	filter := bson.M{"_id": id, "mechanic_id": mechanicID}
	set := bson.M{"last_active": time.Now()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.IsActive != nil {
		set["is_active"] = *update.IsActive
	}
	if update.CurrentStatus != nil {
		set["current_status"] = *update.CurrentStatus
		filter["current_task"] = nil
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var worker models.Worker
	err := c.Collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&worker)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			if update.CurrentStatus != nil {
				return nil, fmt.Errorf("worker %s: %w", id.Hex(), ErrConflict)
			}
			return nil, fmt.Errorf("worker %s: %w", id.Hex(), ErrNotFound)
		}
		return nil, err
	}
	return &worker, nil
}

// DeleteWorker removes an idle worker from the mechanic's roster.
// A worker holding a task is not deleted and ErrConflict is returned.
func (c *MongoWorkerCollection) DeleteWorker(ctx context.Context, id, mechanicID primitive.ObjectID) error {
	if c.Collection == nil {
		return errNilColl
	}

	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": id, "mechanic_id": mechanicID, "current_task": nil})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("worker %s: %w", id.Hex(), ErrConflict)
	}
	return nil
}

// OccupyWorker sets the worker to working on requestID.
func (c *MongoWorkerCollection) OccupyWorker(ctx context.Context, workerID, requestID primitive.ObjectID) error {
	if c.Collection == nil {
		return errNilColl
	}

	filter := bson.M{
		"_id":            workerID,
		"is_active":      true,
		"current_status": models.WorkerAvailable,
		"current_task":   nil,
	}
	update := bson.M{"$set": bson.M{
		"current_status": models.WorkerWorking,
		"current_task":   requestID,
		"last_active":    time.Now(),
	}}

	result, err := c.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("worker %s not available: %w", workerID.Hex(), ErrConflict)
	}
	return nil
}

// ReleaseWorker frees the worker from requestID.
func (c *MongoWorkerCollection) ReleaseWorker(ctx context.Context, workerID, requestID primitive.ObjectID, completed bool) error {
	if c.Collection == nil {
		return errNilColl
	}

	update := bson.M{"$set": bson.M{
		"current_status": models.WorkerAvailable,
		"current_task":   nil,
		"last_active":    time.Now(),
	}}
	if completed {
		update["$addToSet"] = bson.M{"completed_tasks": requestID}
	}

	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": workerID, "current_task": requestID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("worker %s does not hold %s: %w", workerID.Hex(), requestID.Hex(), ErrConflict)
	}
	return nil
}

func (c *MongoWorkerCollection) findOne(ctx context.Context, filter bson.M) (*models.Worker, error) {
	if c.Collection == nil {
		return nil, errNilColl
	}

	var worker models.Worker
	err := c.Collection.FindOne(ctx, filter).Decode(&worker)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &worker, nil
}
