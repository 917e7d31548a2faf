package store

import (
	"context"
	"errors"
	"time"

	"github.com/nectorhq/patient-card-service/card"
	"github.com/nectorhq/patient-card-service/model"
)

// ErrNotFound is returned by UpdateByID when no record matches the patient id.
var ErrNotFound = errors.New("patient not found")

// PatientStore is the persistence contract shared by the file, document and
// SQL backends. Upsert keys on PatientID: a first request creates the record
// and assigns the card number, later requests shallow-merge the provided
// fields over the stored record. UpdateByID has the same merge semantics but
// never creates. ListAll order is unspecified but stable within one read.
// Writes are durable before the call returns.
type PatientStore interface {
	Upsert(ctx context.Context, patch model.PatientPatch) (model.PatientCard, bool, error)
	ListAll(ctx context.Context) ([]model.PatientCard, error)
	UpdateByID(ctx context.Context, patientID string, patch model.PatientPatch) (model.PatientCard, error)
}

// newCard builds the stored record for a first-time patient id. The card
// number and the computed validity date come from the creation timestamp; a
// validTill provided in the patch overrides the computed one.
func newCard(patch model.PatientPatch, now time.Time) model.PatientCard {
	c := model.PatientCard{
		CardNo:    card.NewCardNumber(now),
		PatientID: patch.PatientID,
		ValidTill: card.ExpiryDate(now),
		CreatedAt: now,
		UpdatedAt: now,
	}
	patch.Apply(&c)
	return c
}
