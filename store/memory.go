package store

import (
	"context"
	"sync"

	"ecgenius/models"
)

// MemoryStore 进程内存储，互斥锁保证守卫的检查与写入原子完成
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*models.PredictionRecord
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*models.PredictionRecord)}
}

func (s *MemoryStore) Put(ctx context.Context, record *models.PredictionRecord) error {
	if err := ctx.Err(); err != nil {
		return wrap("put", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.PredictionID] = record.Clone()
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, predictionID string) (*models.PredictionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrap("get", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records[predictionID].Clone(), nil
}

func (s *MemoryStore) RegisterPatient(ctx context.Context, predictionID string, info models.PatientInfo) (*models.PredictionRecord, error) {
	return s.guardedUpdate(ctx, "register_patient", predictionID, ErrAlreadyRegistered, info.ApplyTo)
}

func (s *MemoryStore) UpdatePatientInfo(ctx context.Context, predictionID string, info models.PatientUpdate) (*models.PredictionRecord, error) {
	return s.guardedUpdate(ctx, "update_patient_info", predictionID, ErrAlreadyVisited, info.ApplyTo)
}

func (s *MemoryStore) guardedUpdate(ctx context.Context, op, predictionID string, guardErr error, apply func(*models.PredictionRecord)) (*models.PredictionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrap(op, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[predictionID]
	if !ok {
		return nil, ErrNotFound
	}
	if rec.IsAlreadyVisited {
		return nil, guardErr
	}
	apply(rec)
	return rec.Clone(), nil
}

// Len 当前记录数
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func (s *MemoryStore) Close() error { return nil }
