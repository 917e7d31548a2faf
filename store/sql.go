package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/nectorhq/patient-card-service/model"
)

// SQLStore is the relational backend. Records live in the patient_cards
// table with a unique index on patient_id; merge semantics are identical to
// the other backends.
type SQLStore struct {
	db *gorm.DB
}

func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Upsert(ctx context.Context, patch model.PatientPatch) (model.PatientCard, bool, error) {
	var existing model.PatientCard
	err := s.db.WithContext(ctx).Where("patient_id = ?", patch.PatientID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		created := newCard(patch, time.Now())
		if err := s.db.WithContext(ctx).Create(&created).Error; err != nil {
			return model.PatientCard{}, false, fmt.Errorf("create patient: %w", err)
		}
		return created, true, nil
	}
	if err != nil {
		return model.PatientCard{}, false, fmt.Errorf("find patient: %w", err)
	}

	patch.Apply(&existing)
	if err := s.db.WithContext(ctx).Save(&existing).Error; err != nil {
		return model.PatientCard{}, false, fmt.Errorf("update patient: %w", err)
	}
	return existing, false, nil
}

func (s *SQLStore) ListAll(ctx context.Context) ([]model.PatientCard, error) {
	records := []model.PatientCard{}
	if err := s.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return records, nil
}

func (s *SQLStore) UpdateByID(ctx context.Context, patientID string, patch model.PatientPatch) (model.PatientCard, error) {
	var existing model.PatientCard
	err := s.db.WithContext(ctx).Where("patient_id = ?", patientID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.PatientCard{}, ErrNotFound
	}
	if err != nil {
		return model.PatientCard{}, fmt.Errorf("find patient: %w", err)
	}

	patch.Apply(&existing)
	if err := s.db.WithContext(ctx).Save(&existing).Error; err != nil {
		return model.PatientCard{}, fmt.Errorf("update patient: %w", err)
	}
	return existing, nil
}
