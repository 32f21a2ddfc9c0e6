package db

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/mihirp5027/Odoo-RoadGuard-404-Not-Found/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestConnectMongo_BadURI(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	client, err := ConnectMongo(ctx, "mongodb://bad:uri")
	assert.Error(t, err)
	assert.Nil(t, client)
}

func TestNilCollection(t *testing.T) {
	ctx := context.Background()
	requests := &MongoRequestCollection{}
	workers := &MongoWorkerCollection{}
	id := primitive.NewObjectID()

	assert.ErrorIs(t, requests.InsertRequest(ctx, &models.ServiceRequest{}), errNilColl)
	_, err := requests.FindRequestByID(ctx, id)
	assert.ErrorIs(t, err, errNilColl)
	_, err = requests.TransitionRequest(ctx, id, models.StatusPending, RequestUpdate{Status: models.StatusAccepted})
	assert.ErrorIs(t, err, errNilColl)

	assert.ErrorIs(t, workers.InsertWorker(ctx, &models.Worker{}), errNilColl)
	assert.ErrorIs(t, workers.OccupyWorker(ctx, id, id), errNilColl)
	assert.ErrorIs(t, workers.ReleaseWorker(ctx, id, id, true), errNilColl)
	_, err = workers.FindWorkers(ctx, WorkerFilter{MechanicID: id})
	assert.ErrorIs(t, err, errNilColl)
}

// testDatabase connects to MONGO_URI or skips the test.
func testDatabase(t *testing.T) (*mongo.Client, *mongo.Database) {
	t.Helper()
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set, skipping integration test")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := ConnectMongo(ctx, uri)
	if err != nil {
		t.Skipf("failed to connect: %v, skipping integration test", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	database := client.Database("test_roadguard")
	_ = database.Collection(WorkersCollection).Drop(context.Background())
	_ = database.Collection(RequestsCollection).Drop(context.Background())
	require.NoError(t, EnsureIndexes(context.Background(), database))
	return client, database
}

func TestMongoWorkerCollection_DuplicateMobile(t *testing.T) {
	_, database := testDatabase(t)
	ctx := context.Background()
	workers := &MongoWorkerCollection{Collection: database.Collection(WorkersCollection)}
	mechanicID := primitive.NewObjectID()

	first := &models.Worker{Name: "Ravi", MobileNumber: "9876543210", MechanicID: mechanicID, IsActive: true, CurrentStatus: models.WorkerAvailable}
	require.NoError(t, workers.InsertWorker(ctx, first))

	second := &models.Worker{Name: "Other", MobileNumber: "9876543210", MechanicID: mechanicID, IsActive: true, CurrentStatus: models.WorkerAvailable}
	err := workers.InsertWorker(ctx, second)
	assert.ErrorIs(t, err, ErrDuplicate)

	roster, err := workers.FindWorkers(ctx, WorkerFilter{MechanicID: mechanicID})
	require.NoError(t, err)
	assert.Len(t, roster, 1)
}

func TestMongoWorkerCollection_OccupyAndRelease(t *testing.T) {
	_, database := testDatabase(t)
	ctx := context.Background()
	workers := &MongoWorkerCollection{Collection: database.Collection(WorkersCollection)}

	worker := &models.Worker{Name: "Ravi", MobileNumber: "9876543211", MechanicID: primitive.NewObjectID(), IsActive: true, CurrentStatus: models.WorkerAvailable}
	require.NoError(t, workers.InsertWorker(ctx, worker))
	requestID := primitive.NewObjectID()

	require.NoError(t, workers.OccupyWorker(ctx, worker.ID, requestID))
	assert.ErrorIs(t, workers.OccupyWorker(ctx, worker.ID, primitive.NewObjectID()), ErrConflict)

	// wrong request does not release
	assert.ErrorIs(t, workers.ReleaseWorker(ctx, worker.ID, primitive.NewObjectID(), true), ErrConflict)

	require.NoError(t, workers.ReleaseWorker(ctx, worker.ID, requestID, true))
	found, err := workers.FindWorkerByID(ctx, worker.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WorkerAvailable, found.CurrentStatus)
	assert.Nil(t, found.CurrentTask)
	assert.Equal(t, []primitive.ObjectID{requestID}, found.CompletedTasks)
}

func TestMongoRequestCollection_TransitionRequest(t *testing.T) {
	_, database := testDatabase(t)
	ctx := context.Background()
	requests := &MongoRequestCollection{Collection: database.Collection(RequestsCollection)}

	req := &models.ServiceRequest{
		UserID:      primitive.NewObjectID(),
		MechanicID:  primitive.NewObjectID(),
		VehicleID:   primitive.NewObjectID(),
		ServiceType: models.ServiceTowing,
		Location:    models.NewGeoPoint(19.07, 72.87, "Mumbai"),
		Status:      models.StatusPending,
	}
	require.NoError(t, requests.InsertRequest(ctx, req))

	updated, err := requests.TransitionRequest(ctx, req.ID, models.StatusPending, RequestUpdate{Status: models.StatusAccepted})
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, updated.Status)

	_, err = requests.TransitionRequest(ctx, req.ID, models.StatusPending, RequestUpdate{Status: models.StatusRejected})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = requests.FindRequestByID(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMongoTransactor_AbortsOnError(t *testing.T) {
	client, database := testDatabase(t)
	ctx := context.Background()
	workers := &MongoWorkerCollection{Collection: database.Collection(WorkersCollection)}
	tx := &MongoTransactor{Client: client}

	worker := &models.Worker{Name: "Ravi", MobileNumber: "9876543212", MechanicID: primitive.NewObjectID(), IsActive: true, CurrentStatus: models.WorkerAvailable}
	require.NoError(t, workers.InsertWorker(ctx, worker))

	boom := errors.New("boom")
	err := tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := workers.OccupyWorker(txCtx, worker.ID, primitive.NewObjectID()); err != nil {
			return err
		}
		return boom
	})
	if err != nil && !errors.Is(err, boom) {
		t.Skipf("transactions unsupported by this deployment: %v", err)
	}
	assert.ErrorIs(t, err, boom)

	found, err := workers.FindWorkerByID(ctx, worker.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WorkerAvailable, found.CurrentStatus)
	assert.Nil(t, found.CurrentTask)
}
