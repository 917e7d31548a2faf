package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nectorhq/patient-card-service/model"
)

const patientCollection = "patients"

// MongoStore keeps each patient card as one document in the patients
// collection. Merging relies on a single $set of the provided fields so a
// concurrent writer can never persist a partial record.
type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{col: db.Collection(patientCollection)}
}

// EnsureIndexes creates the unique index on patientId. Call once at startup.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "patientId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create patient index: %w", err)
	}
	return nil
}

func (s *MongoStore) Upsert(ctx context.Context, patch model.PatientPatch) (model.PatientCard, bool, error) {
	var existing model.PatientCard
	err := s.col.FindOne(ctx, bson.M{"patientId": patch.PatientID}).Decode(&existing)
	if err == mongo.ErrNoDocuments {
		created := newCard(patch, time.Now())
		if _, err := s.col.InsertOne(ctx, created); err != nil {
			return model.PatientCard{}, false, fmt.Errorf("insert patient: %w", err)
		}
		return created, true, nil
	}
	if err != nil {
		return model.PatientCard{}, false, fmt.Errorf("find patient: %w", err)
	}

	updated, err := s.applyPatch(ctx, patch.PatientID, patch)
	if err != nil {
		return model.PatientCard{}, false, err
	}
	return updated, false, nil
}

func (s *MongoStore) ListAll(ctx context.Context) ([]model.PatientCard, error) {
	cursor, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	defer cursor.Close(ctx)

	records := []model.PatientCard{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode patients: %w", err)
	}
	return records, nil
}

func (s *MongoStore) UpdateByID(ctx context.Context, patientID string, patch model.PatientPatch) (model.PatientCard, error) {
	updated, err := s.applyPatch(ctx, patientID, patch)
	if err == mongo.ErrNoDocuments {
		return model.PatientCard{}, ErrNotFound
	}
	return updated, err
}

func (s *MongoStore) applyPatch(ctx context.Context, patientID string, patch model.PatientPatch) (model.PatientCard, error) {
	set := patch.SetFields()
	set["updatedAt"] = time.Now()

	var updated model.PatientCard
	err := s.col.FindOneAndUpdate(
		ctx,
		bson.M{"patientId": patientID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return model.PatientCard{}, err
	}
	if err != nil {
		return model.PatientCard{}, fmt.Errorf("update patient: %w", err)
	}
	return updated, nil
}
