package models

import (
	"gorm.io/datatypes"
)

// PredictionRecord 一次 /predict 调用的持久化结果，以 prediction_id 为主键
// 诊断结果与样本仅在创建时写入；患者字段仅在登记时写入一次
type PredictionRecord struct {
	PredictionID string                       `json:"prediction_id" gorm:"primaryKey;size:64" dynamodbav:"prediction_id"`
	Timestamp    string                       `json:"timestamp" gorm:"size:40;not null" dynamodbav:"timestamp"`
	IsMCI        bool                         `json:"is_mci" gorm:"not null;default:false" dynamodbav:"is_mci"`
	IsAFib       bool                         `json:"is_afib" gorm:"not null;default:false" dynamodbav:"is_afib"`
	IsBBB        bool                         `json:"is_bbb" gorm:"not null;default:false" dynamodbav:"is_bbb"`
	IsVFI        bool                         `json:"is_vfi" gorm:"not null;default:false" dynamodbav:"is_vfi"`
	HeartRate    float64                      `json:"heart_rate" dynamodbav:"heart_rate"`
	Samples      datatypes.JSONSlice[float64] `json:"samples" gorm:"type:json" dynamodbav:"samples"`

	// IsAlreadyVisited 登记守卫：只允许 false -> true 一次
	IsAlreadyVisited bool `json:"is_already_visited" gorm:"not null;default:false;index" dynamodbav:"is_already_visited"`

	Name               *string `json:"name,omitempty" gorm:"size:100" dynamodbav:"name,omitempty"`
	Age                *Age    `json:"age,omitempty" dynamodbav:"age,omitempty"`
	Gender             *string `json:"gender,omitempty" gorm:"size:20" dynamodbav:"gender,omitempty"`
	PhoneNo            *string `json:"phone_no,omitempty" gorm:"size:32" dynamodbav:"phone_no,omitempty"`
	PreviousMedication *string `json:"previous_medication,omitempty" gorm:"type:text" dynamodbav:"previous_medication,omitempty"`
}

// TableName 设置表名
func (PredictionRecord) TableName() string {
	return "predictions"
}

// Results 诊断结果
type Results struct {
	IsMCI     bool    `json:"is_mci"`
	IsAFib    bool    `json:"is_afib"`
	IsBBB     bool    `json:"is_bbb"`
	IsVFI     bool    `json:"is_vfi"`
	HeartRate float64 `json:"heart_rate"`
}

// Results 从记录中提取诊断结果
func (r *PredictionRecord) Results() Results {
	return Results{
		IsMCI:     r.IsMCI,
		IsAFib:    r.IsAFib,
		IsBBB:     r.IsBBB,
		IsVFI:     r.IsVFI,
		HeartRate: r.HeartRate,
	}
}

// NewPredictionRecord 以诊断结果和原始样本创建记录，守卫标志默认为 false
func NewPredictionRecord(id, timestamp string, res Results, samples []float64) *PredictionRecord {
	if samples == nil {
		samples = []float64{}
	}
	return &PredictionRecord{
		PredictionID: id,
		Timestamp:    timestamp,
		IsMCI:        res.IsMCI,
		IsAFib:       res.IsAFib,
		IsBBB:        res.IsBBB,
		IsVFI:        res.IsVFI,
		HeartRate:    res.HeartRate,
		Samples:      datatypes.NewJSONSlice(samples),
	}
}

// Clone 深拷贝，内存存储返回副本以避免调用方改写内部状态
func (r *PredictionRecord) Clone() *PredictionRecord {
	if r == nil {
		return nil
	}
	out := *r
	if r.Samples != nil {
		out.Samples = append(datatypes.JSONSlice[float64]{}, r.Samples...)
	}
	out.Name = cloneString(r.Name)
	out.Gender = cloneString(r.Gender)
	out.PhoneNo = cloneString(r.PhoneNo)
	out.PreviousMedication = cloneString(r.PreviousMedication)
	if r.Age != nil {
		a := *r.Age
		out.Age = &a
	}
	return &out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
