// server/internal/requests/mongo.go
package requests

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pharmacy-refill-dispatch/internal/directory"
	"pharmacy-refill-dispatch/internal/models"
)

const collectionName = "refill_requests"

// MongoStore is the durable Store implementation backed by a single
// collection of refill requests.
type MongoStore struct {
	DB        *mongo.Database
	Directory *directory.Directory
}

func NewMongoStore(db *mongo.Database, dir *directory.Directory) *MongoStore {
	return &MongoStore{DB: db, Directory: dir}
}

var _ Store = (*MongoStore)(nil)

func (s *MongoStore) collection() *mongo.Collection {
	return s.DB.Collection(collectionName)
}

func (s *MongoStore) Submit(ctx context.Context, in NewRefill) (*models.RefillRequest, error) {
	in, err := validateSubmission(s.Directory, in)
	if err != nil {
		return nil, err
	}

	req := models.RefillRequest{
		RequestID:   newRequestID(),
		RxNumber:    in.RxNumber,
		StoreID:     in.StoreID,
		PatientName: in.PatientName,
		Status:      models.StatusPending,
		CreatedAt:   time.Now().UTC(),
	}

	result, err := s.collection().InsertOne(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to insert refill request: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		req.ID = oid
	}

	return &req, nil
}

// ClaimPending hands every pending request for the store to the caller.
// Each document is transitioned by its own FindOneAndUpdate, a single
// atomic read-modify-write on the status field, so a concurrent claimer
// can never win the same document. Sorting by createdAt makes the loop
// drain the queue oldest first. The returned snapshots are the documents
// as they were before the transition.
func (s *MongoStore) ClaimPending(ctx context.Context, storeID string) ([]models.RefillRequest, error) {
	now := time.Now().UTC()
	opts := options.FindOneAndUpdate().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetReturnDocument(options.Before)

	claimed := []models.RefillRequest{}
	for {
		var req models.RefillRequest
		err := s.collection().FindOneAndUpdate(ctx,
			bson.M{"storeID": storeID, "status": models.StatusPending},
			bson.M{"$set": bson.M{"status": models.StatusPrinting, "printedAt": now}},
			opts,
		).Decode(&req)
		if err == mongo.ErrNoDocuments {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to claim pending requests: %w", err)
		}
		claimed = append(claimed, req)
	}

	return claimed, nil
}

func (s *MongoStore) MarkPrinted(ctx context.Context, requestID string) error {
	// Filtering on the printing status makes this a no-op for unknown ids,
	// duplicate reports and already-printed records.
	_, err := s.collection().UpdateOne(ctx,
		bson.M{"requestID": requestID, "status": models.StatusPrinting},
		bson.M{"$set": bson.M{"status": models.StatusPrinted}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark request printed: %w", err)
	}
	return nil
}

func (s *MongoStore) MarkPrintFailed(ctx context.Context, requestID string) error {
	_, err := s.collection().UpdateOne(ctx,
		bson.M{"requestID": requestID, "status": models.StatusPrinting},
		bson.M{
			"$set":   bson.M{"status": models.StatusPending},
			"$unset": bson.M{"printedAt": ""},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to mark request print-failed: %w", err)
	}
	return nil
}

func (s *MongoStore) GetByID(ctx context.Context, requestID string) (*models.RefillRequest, error) {
	var req models.RefillRequest
	err := s.collection().FindOne(ctx, bson.M{"requestID": requestID}).Decode(&req)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve refill request: %w", err)
	}
	return &req, nil
}

func (s *MongoStore) ListByStore(ctx context.Context, storeID string) ([]models.RefillRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := s.collection().Find(ctx, bson.M{"storeID": storeID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query refill requests: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []models.RefillRequest
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode refill requests: %w", err)
	}
	if requests == nil {
		requests = []models.RefillRequest{}
	}
	return requests, nil
}
