package util

import (
	"container/list"
	"sync"

	"github.com/nectorhq/patient-card-service/model"
)

// LRU cache for patientId -> PatientCard. The card and QR endpoints look a
// record up per request; this memoizes recent lookups. Every write to the
// store must invalidate the entry so a stale card is never rendered.
type patientEntry struct {
	patientID string
	card      model.PatientCard
}

type patientLRU struct {
	mu       sync.Mutex
	ll       *list.List
	cache    map[string]*list.Element
	capacity int
}

var patientCache *patientLRU

// InitPatientCache initializes the LRU cache with given capacity.
// If capacity <= 0, a default of 256 is used.
func InitPatientCache(capacity int) {
	if capacity <= 0 {
		capacity = 256
	}
	patientCache = &patientLRU{
		ll:       list.New(),
		cache:    make(map[string]*list.Element),
		capacity: capacity,
	}
}

// PatientCacheGet returns the cached card and true if present.
func PatientCacheGet(patientID string) (model.PatientCard, bool) {
	if patientCache == nil {
		return model.PatientCard{}, false
	}
	patientCache.mu.Lock()
	defer patientCache.mu.Unlock()
	if ele, ok := patientCache.cache[patientID]; ok {
		patientCache.ll.MoveToFront(ele)
		if e, ok := ele.Value.(patientEntry); ok {
			return e.card, true
		}
	}
	return model.PatientCard{}, false
}

// PatientCacheSet stores the card for its patientId, evicting the least
// recently used entry when over capacity.
func PatientCacheSet(card model.PatientCard) {
	if patientCache == nil {
		return
	}
	patientCache.mu.Lock()
	defer patientCache.mu.Unlock()
	if ele, ok := patientCache.cache[card.PatientID]; ok {
		patientCache.ll.MoveToFront(ele)
		ele.Value = patientEntry{patientID: card.PatientID, card: card}
		return
	}
	ele := patientCache.ll.PushFront(patientEntry{patientID: card.PatientID, card: card})
	patientCache.cache[card.PatientID] = ele
	if patientCache.ll.Len() > patientCache.capacity {
		oldest := patientCache.ll.Back()
		if oldest != nil {
			patientCache.ll.Remove(oldest)
			if e, ok := oldest.Value.(patientEntry); ok {
				delete(patientCache.cache, e.patientID)
			}
		}
	}
}

// PatientCacheInvalidate drops the entry for a patientId, if cached.
func PatientCacheInvalidate(patientID string) {
	if patientCache == nil {
		return
	}
	patientCache.mu.Lock()
	defer patientCache.mu.Unlock()
	if ele, ok := patientCache.cache[patientID]; ok {
		patientCache.ll.Remove(ele)
		delete(patientCache.cache, patientID)
	}
}
