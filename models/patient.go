package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// PatientInfo 登记时写入的患者信息
type PatientInfo struct {
	Name               string `json:"name"`
	Age                Age    `json:"age"`
	Gender             string `json:"gender"`
	PhoneNo            string `json:"phone_no"`
	PreviousMedication string `json:"previous_medication"`
}

// PatientUpdate 就诊前更新的患者信息（不含手机号）
type PatientUpdate struct {
	Name               string `json:"name"`
	Age                Age    `json:"age"`
	Gender             string `json:"gender"`
	PreviousMedication string `json:"previous_medication"`
}

// ApplyTo 将登记信息写入记录并置位守卫
func (p PatientInfo) ApplyTo(r *PredictionRecord) {
	age := p.Age
	r.Name = &p.Name
	r.Age = &age
	r.Gender = &p.Gender
	r.PhoneNo = &p.PhoneNo
	r.PreviousMedication = &p.PreviousMedication
	r.IsAlreadyVisited = true
}

// ApplyTo 将更新信息写入记录并置位守卫，手机号保持不变
func (p PatientUpdate) ApplyTo(r *PredictionRecord) {
	age := p.Age
	r.Name = &p.Name
	r.Age = &age
	r.Gender = &p.Gender
	r.PreviousMedication = &p.PreviousMedication
	r.IsAlreadyVisited = true
}

// Age 年龄，兼容 JSON 数字与数字字符串（"42"）
type Age int

// UnmarshalJSON 解析年龄
func (a *Age) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("age must not be null")
	}
	var raw string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	} else {
		raw = string(data)
	}
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		*a = Age(n)
		return nil
	}
	// 允许 42.0 这种整数值浮点
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != float64(int(f)) {
		return fmt.Errorf("age must be an integer, got %s", string(data))
	}
	*a = Age(int(f))
	return nil
}
