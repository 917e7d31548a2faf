package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nectorhq/patient-card-service/model"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func fullPatch(patientID string) model.PatientPatch {
	return model.PatientPatch{
		PatientID:   patientID,
		PatientName: strPtr("Jane Doe"),
		PhoneNumber: strPtr("1234567890"),
		Address:     strPtr("14/2 Green Park Colony"),
		Discount:    intPtr(10),
	}
}

// runStoreContractTests exercises the PatientStore semantics shared by every
// backend: upsert idempotence, shallow merge, and update-by-id.
func runStoreContractTests(t *testing.T, newStore func(t *testing.T) PatientStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("UpsertCreatesThenMerges", func(t *testing.T) {
		s := newStore(t)

		saved, created, err := s.Upsert(ctx, fullPatch("P1"))
		assert.NoError(t, err)
		assert.True(t, created)
		assert.True(t, strings.HasPrefix(saved.CardNo, "CARD-"))
		assert.Equal(t, ExpectedExpiry(time.Now()), saved.ValidTill)

		again, created, err := s.Upsert(ctx, fullPatch("P1"))
		assert.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, saved.CardNo, again.CardNo)

		records, err := s.ListAll(ctx)
		assert.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("UpsertMergePreservesAbsentFields", func(t *testing.T) {
		s := newStore(t)

		first, created, err := s.Upsert(ctx, fullPatch("P2"))
		assert.NoError(t, err)
		assert.True(t, created)

		merged, created, err := s.Upsert(ctx, model.PatientPatch{
			PatientID:   "P2",
			PhoneNumber: strPtr("9999999999"),
		})
		assert.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, "9999999999", merged.PhoneNumber)
		assert.Equal(t, first.PatientName, merged.PatientName)
		assert.Equal(t, first.Address, merged.Address)
		assert.Equal(t, first.Discount, merged.Discount)
		assert.Equal(t, first.CardNo, merged.CardNo)
	})

	t.Run("ExplicitValidTillOverridesComputed", func(t *testing.T) {
		s := newStore(t)

		patch := fullPatch("P3")
		patch.ValidTill = strPtr("2030-01-01")
		saved, _, err := s.Upsert(ctx, patch)
		assert.NoError(t, err)
		assert.Equal(t, "2030-01-01", saved.ValidTill)
	})

	t.Run("UpdateByIDMerges", func(t *testing.T) {
		s := newStore(t)

		_, _, err := s.Upsert(ctx, fullPatch("P4"))
		assert.NoError(t, err)

		updated, err := s.UpdateByID(ctx, "P4", model.PatientPatch{
			Discount: intPtr(50),
		})
		assert.NoError(t, err)
		assert.Equal(t, 50, updated.Discount)
		assert.Equal(t, "Jane Doe", updated.PatientName)
	})

	t.Run("UpdateByIDNotFoundLeavesSetUnchanged", func(t *testing.T) {
		s := newStore(t)

		_, _, err := s.Upsert(ctx, fullPatch("P5"))
		assert.NoError(t, err)

		_, err = s.UpdateByID(ctx, "UNKNOWN", model.PatientPatch{
			Discount: intPtr(99),
		})
		assert.ErrorIs(t, err, ErrNotFound)

		records, err := s.ListAll(ctx)
		assert.NoError(t, err)
		assert.Len(t, records, 1)
		assert.Equal(t, 10, records[0].Discount)
	})

	t.Run("ListAllEmpty", func(t *testing.T) {
		s := newStore(t)
		records, err := s.ListAll(ctx)
		assert.NoError(t, err)
		assert.NotNil(t, records)
		assert.Empty(t, records)
	})
}

// ExpectedExpiry mirrors the expiry rule for assertions against records
// created "now".
func ExpectedExpiry(now time.Time) string {
	return now.AddDate(1, 0, 0).Format("2006-01-02")
}
