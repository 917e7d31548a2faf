package util

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nectorhq/patient-card-service/model"
)

func cachedPatient(id string) model.PatientCard {
	return model.PatientCard{PatientID: id, PatientName: "Patient " + id, CardNo: "CARD-" + id}
}

func TestPatientCacheSetGet(t *testing.T) {
	InitPatientCache(4)

	PatientCacheSet(cachedPatient("P1"))
	got, ok := PatientCacheGet("P1")
	assert.True(t, ok)
	assert.Equal(t, "Patient P1", got.PatientName)

	_, ok = PatientCacheGet("P2")
	assert.False(t, ok)
}

func TestPatientCacheInvalidate(t *testing.T) {
	InitPatientCache(4)

	PatientCacheSet(cachedPatient("P1"))
	PatientCacheInvalidate("P1")

	_, ok := PatientCacheGet("P1")
	assert.False(t, ok)
}

func TestPatientCacheOverwrite(t *testing.T) {
	InitPatientCache(4)

	PatientCacheSet(cachedPatient("P1"))
	updated := cachedPatient("P1")
	updated.PatientName = "Renamed"
	PatientCacheSet(updated)

	got, ok := PatientCacheGet("P1")
	assert.True(t, ok)
	assert.Equal(t, "Renamed", got.PatientName)
}

func TestPatientCacheEvictsLRU(t *testing.T) {
	InitPatientCache(3)

	for i := 1; i <= 3; i++ {
		PatientCacheSet(cachedPatient(fmt.Sprintf("P%d", i)))
	}
	// Touch P1 so P2 becomes the eviction candidate.
	_, ok := PatientCacheGet("P1")
	assert.True(t, ok)

	PatientCacheSet(cachedPatient("P4"))

	_, ok = PatientCacheGet("P2")
	assert.False(t, ok)
	_, ok = PatientCacheGet("P1")
	assert.True(t, ok)
	_, ok = PatientCacheGet("P4")
	assert.True(t, ok)
}

func TestPatientCacheUninitializedIsNoop(t *testing.T) {
	patientCache = nil

	PatientCacheSet(cachedPatient("P1"))
	_, ok := PatientCacheGet("P1")
	assert.False(t, ok)
	PatientCacheInvalidate("P1")
}
