// Package store 持久化预测记录，并以后端原生的条件写实现“只登记一次”的守卫。
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecgenius/models"
)

var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("prediction record not found")
	// ErrAlreadyRegistered 该预测已登记过患者信息
	ErrAlreadyRegistered = errors.New("patient already registered for this prediction")
	// ErrAlreadyVisited 患者已就诊，信息不可再更新
	ErrAlreadyVisited = errors.New("patient has already visited")
)

// RecordStore 预测记录存储
//
// Get 在记录不存在时返回 (nil, nil)。
// RegisterPatient / UpdatePatientInfo 的守卫判断与写入必须是同一次原子操作，
// 不允许先读后写。
type RecordStore interface {
	Put(ctx context.Context, record *models.PredictionRecord) error
	Get(ctx context.Context, predictionID string) (*models.PredictionRecord, error)
	RegisterPatient(ctx context.Context, predictionID string, info models.PatientInfo) (*models.PredictionRecord, error)
	UpdatePatientInfo(ctx context.Context, predictionID string, info models.PatientUpdate) (*models.PredictionRecord, error)
	Close() error
}

// StorageError 底层存储失败（网络、服务端、超时）
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsStorageError 判断是否为存储错误
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// wrap 将后端错误包装为 StorageError，守卫类哨兵错误原样返回
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrAlreadyRegistered) || errors.Is(err, ErrAlreadyVisited) {
		return err
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// WithTimeout 为每次存储调用加超时，超时同样作为 StorageError 返回
func WithTimeout(next RecordStore, d time.Duration) RecordStore {
	if d <= 0 {
		return next
	}
	return &timeoutStore{next: next, timeout: d}
}

type timeoutStore struct {
	next    RecordStore
	timeout time.Duration
}

func (s *timeoutStore) Put(ctx context.Context, record *models.PredictionRecord) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return wrap("put", s.next.Put(ctx, record))
}

func (s *timeoutStore) Get(ctx context.Context, predictionID string) (*models.PredictionRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	rec, err := s.next.Get(ctx, predictionID)
	return rec, wrap("get", err)
}

func (s *timeoutStore) RegisterPatient(ctx context.Context, predictionID string, info models.PatientInfo) (*models.PredictionRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	rec, err := s.next.RegisterPatient(ctx, predictionID, info)
	return rec, wrap("register_patient", err)
}

func (s *timeoutStore) UpdatePatientInfo(ctx context.Context, predictionID string, info models.PatientUpdate) (*models.PredictionRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	rec, err := s.next.UpdatePatientInfo(ctx, predictionID, info)
	return rec, wrap("update_patient_info", err)
}

func (s *timeoutStore) Close() error { return s.next.Close() }
