package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ecgenius/config"
	"ecgenius/models"

	goredis "github.com/redis/go-redis/v9"
)

// 每条记录一个 hash：
//   record             创建时写入的不可变部分（JSON）
//   is_already_visited "0" / "1"
//   patient            登记或更新写入的患者信息（JSON）
const (
	fieldRecord  = "record"
	fieldVisited = "is_already_visited"
	fieldPatient = "patient"
)

// guardScript 在 Redis 内原子完成存在性检查、守卫判断与写入
// 返回 0 不存在，1 守卫已置位，2 写入成功
var guardScript = goredis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
if redis.call('HGET', KEYS[1], ARGV[1]) == '1' then
	return 1
end
redis.call('HSET', KEYS[1], ARGV[2], ARGV[3], ARGV[1], '1')
return 2
`)

// RedisStore Redis 存储
type RedisStore struct {
	rdb    goredis.UniversalClient
	prefix string
}

// redisPatient 患者字段，缺省字段保持为空
type redisPatient struct {
	Name               *string     `json:"name,omitempty"`
	Age                *models.Age `json:"age,omitempty"`
	Gender             *string     `json:"gender,omitempty"`
	PhoneNo            *string     `json:"phone_no,omitempty"`
	PreviousMedication *string     `json:"previous_medication,omitempty"`
}

// NewRedisStore 使用给定客户端创建存储
func NewRedisStore(rdb goredis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix}
}

// NewRedisStoreFromConfig 连接 Redis 并在启动时 Ping
func NewRedisStoreFromConfig(ctx context.Context, cfg config.RedisConfig) (*RedisStore, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisStore(rdb, cfg.KeyPrefix), nil
}

func (s *RedisStore) key(predictionID string) string {
	return s.prefix + predictionID
}

func (s *RedisStore) Put(ctx context.Context, record *models.PredictionRecord) error {
	base := *record
	base.IsAlreadyVisited = false
	base.Name, base.Age, base.Gender, base.PhoneNo, base.PreviousMedication = nil, nil, nil, nil, nil
	raw, err := json.Marshal(&base)
	if err != nil {
		return wrap("put", fmt.Errorf("marshal record: %w", err))
	}

	visited := "0"
	values := []interface{}{fieldRecord, raw}
	if record.IsAlreadyVisited {
		visited = "1"
		patient, err := json.Marshal(redisPatient{
			Name:               record.Name,
			Age:                record.Age,
			Gender:             record.Gender,
			PhoneNo:            record.PhoneNo,
			PreviousMedication: record.PreviousMedication,
		})
		if err != nil {
			return wrap("put", fmt.Errorf("marshal patient: %w", err))
		}
		values = append(values, fieldPatient, patient)
	}
	values = append(values, fieldVisited, visited)

	key := s.key(record.PredictionID)
	_, err = s.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, values...)
		return nil
	})
	return wrap("put", err)
}

func (s *RedisStore) Get(ctx context.Context, predictionID string) (*models.PredictionRecord, error) {
	fields, err := s.rdb.HGetAll(ctx, s.key(predictionID)).Result()
	if err != nil {
		return nil, wrap("get", err)
	}
	raw, ok := fields[fieldRecord]
	if !ok {
		return nil, nil
	}
	var rec models.PredictionRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, wrap("get", fmt.Errorf("unmarshal record: %w", err))
	}
	rec.IsAlreadyVisited = fields[fieldVisited] == "1"
	if p, ok := fields[fieldPatient]; ok {
		var patient redisPatient
		if err := json.Unmarshal([]byte(p), &patient); err != nil {
			return nil, wrap("get", fmt.Errorf("unmarshal patient: %w", err))
		}
		rec.Name, rec.Age, rec.Gender = patient.Name, patient.Age, patient.Gender
		rec.PhoneNo, rec.PreviousMedication = patient.PhoneNo, patient.PreviousMedication
	}
	return &rec, nil
}

func (s *RedisStore) RegisterPatient(ctx context.Context, predictionID string, info models.PatientInfo) (*models.PredictionRecord, error) {
	age := info.Age
	return s.guardedUpdate(ctx, "register_patient", predictionID, redisPatient{
		Name:               &info.Name,
		Age:                &age,
		Gender:             &info.Gender,
		PhoneNo:            &info.PhoneNo,
		PreviousMedication: &info.PreviousMedication,
	}, ErrAlreadyRegistered)
}

func (s *RedisStore) UpdatePatientInfo(ctx context.Context, predictionID string, info models.PatientUpdate) (*models.PredictionRecord, error) {
	age := info.Age
	return s.guardedUpdate(ctx, "update_patient_info", predictionID, redisPatient{
		Name:               &info.Name,
		Age:                &age,
		Gender:             &info.Gender,
		PreviousMedication: &info.PreviousMedication,
	}, ErrAlreadyVisited)
}

func (s *RedisStore) guardedUpdate(ctx context.Context, op, predictionID string, patient redisPatient, guardErr error) (*models.PredictionRecord, error) {
	raw, err := json.Marshal(patient)
	if err != nil {
		return nil, wrap(op, fmt.Errorf("marshal patient: %w", err))
	}
	code, err := guardScript.Run(ctx, s.rdb, []string{s.key(predictionID)}, fieldVisited, fieldPatient, raw).Int()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return nil, wrap(op, err)
	}
	switch code {
	case 0:
		return nil, ErrNotFound
	case 1:
		return nil, guardErr
	}
	rec, err := s.Get(ctx, predictionID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	return rec, nil
}

func (s *RedisStore) Close() error { return s.rdb.Close() }
