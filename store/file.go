package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nectorhq/patient-card-service/model"
)

// FileStore persists the record set as a single pretty-printed JSON array.
// All access goes through a whole-file read/modify/write guarded by a mutex;
// the write is an atomic replace so a crashed write can never leave a partial
// record behind.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore prepares a store at path, creating the parent directory when
// missing. The file itself is created lazily on the first write.
func NewFileStore(path string) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Upsert(ctx context.Context, patch model.PatientPatch) (model.PatientCard, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return model.PatientCard{}, false, err
	}

	for i := range records {
		if records[i].PatientID == patch.PatientID {
			patch.Apply(&records[i])
			records[i].UpdatedAt = time.Now()
			if err := s.save(records); err != nil {
				return model.PatientCard{}, false, err
			}
			return records[i], false, nil
		}
	}

	created := newCard(patch, time.Now())
	records = append(records, created)
	if err := s.save(records); err != nil {
		return model.PatientCard{}, false, err
	}
	return created, true, nil
}

func (s *FileStore) ListAll(ctx context.Context) ([]model.PatientCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *FileStore) UpdateByID(ctx context.Context, patientID string, patch model.PatientPatch) (model.PatientCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return model.PatientCard{}, err
	}

	for i := range records {
		if records[i].PatientID == patientID {
			patch.Apply(&records[i])
			records[i].UpdatedAt = time.Now()
			if err := s.save(records); err != nil {
				return model.PatientCard{}, err
			}
			return records[i], nil
		}
	}
	return model.PatientCard{}, ErrNotFound
}

func (s *FileStore) load() ([]model.PatientCard, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.PatientCard{}, nil
		}
		return nil, fmt.Errorf("read patient file: %w", err)
	}
	if len(data) == 0 {
		return []model.PatientCard{}, nil
	}

	var records []model.PatientCard
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode patient file: %w", err)
	}
	return records, nil
}

// save writes the full record set to a temp file in the same directory, syncs
// it, then renames it over the live file. Readers see either the old or the
// new set, never a torn write.
func (s *FileStore) save(records []model.PatientCard) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode patient file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".patients-*.json")
	if err != nil {
		return fmt.Errorf("create temp patient file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write patient file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync patient file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close patient file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace patient file: %w", err)
	}
	return nil
}
