package models

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"time"
)

const (
	// predictionIDSuffixBytes 随机后缀字节数（十六进制编码后 12 位）
	predictionIDSuffixBytes = 6
	// TimestampLayout ISO-8601 UTC 时间戳格式
	TimestampLayout = "2006-01-02T15:04:05.000000Z"
)

// IDGenerator 生成预测编号与创建时间
// 编号由日期前缀和密码学随机后缀组成，不与存储做唯一性校验
type IDGenerator struct {
	Now  func() time.Time
	Rand io.Reader
}

// NewIDGenerator 创建默认生成器
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{Now: time.Now, Rand: rand.Reader}
}

// Generate 返回 (prediction_id, timestamp)
func (g *IDGenerator) Generate() (string, string, error) {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	src := rand.Reader
	if g.Rand != nil {
		src = g.Rand
	}

	ts := now().UTC()
	suffix := make([]byte, predictionIDSuffixBytes)
	if _, err := io.ReadFull(src, suffix); err != nil {
		return "", "", fmt.Errorf("generate prediction id: %w", err)
	}
	id := ts.Format("20060102") + "-" + hex.EncodeToString(suffix)
	return id, ts.Format(TimestampLayout), nil
}
