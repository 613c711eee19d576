package store

import (
	"context"
	"errors"

	"ecgenius/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore 关系型存储（mysql / postgres / sqlite）
// 守卫通过带条件的 UPDATE 实现，影响行数为 0 即条件不成立
type GormStore struct {
	db *gorm.DB
}

// NewGormStore 创建 gorm 存储
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Put(ctx context.Context, record *models.PredictionRecord) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(record).Error
	return wrap("put", err)
}

func (s *GormStore) Get(ctx context.Context, predictionID string) (*models.PredictionRecord, error) {
	var rec models.PredictionRecord
	err := s.db.WithContext(ctx).Where("prediction_id = ?", predictionID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get", err)
	}
	return &rec, nil
}

func (s *GormStore) RegisterPatient(ctx context.Context, predictionID string, info models.PatientInfo) (*models.PredictionRecord, error) {
	updates := map[string]interface{}{
		"name":                info.Name,
		"age":                 int(info.Age),
		"gender":              info.Gender,
		"phone_no":            info.PhoneNo,
		"previous_medication": info.PreviousMedication,
		"is_already_visited":  true,
	}
	return s.guardedUpdate(ctx, "register_patient", predictionID, updates, ErrAlreadyRegistered)
}

func (s *GormStore) UpdatePatientInfo(ctx context.Context, predictionID string, info models.PatientUpdate) (*models.PredictionRecord, error) {
	updates := map[string]interface{}{
		"name":                info.Name,
		"age":                 int(info.Age),
		"gender":              info.Gender,
		"previous_medication": info.PreviousMedication,
		"is_already_visited":  true,
	}
	return s.guardedUpdate(ctx, "update_patient_info", predictionID, updates, ErrAlreadyVisited)
}

func (s *GormStore) guardedUpdate(ctx context.Context, op, predictionID string, updates map[string]interface{}, guardErr error) (*models.PredictionRecord, error) {
	res := s.db.WithContext(ctx).
		Model(&models.PredictionRecord{}).
		Where("prediction_id = ? AND (is_already_visited IS NULL OR is_already_visited = ?)", predictionID, false).
		Updates(updates)
	if res.Error != nil {
		return nil, wrap(op, res.Error)
	}

	// 条件已在同一条 UPDATE 中判定，这里的读取只用于区分结果
	rec, err := s.Get(ctx, predictionID)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected == 0 {
		if rec == nil {
			return nil, ErrNotFound
		}
		return nil, guardErr
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	return rec, nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
