// Package diagnostics 定义 ECG 诊断能力接口及其当前的占位实现。
// 四个检测器与心率估计以同一份样本并行执行，任一失败即整体失败。
package diagnostics

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"ecgenius/config"
	"ecgenius/models"

	"golang.org/x/sync/errgroup"
)

// Diagnostics 诊断能力：输入样本序列，输出四个布尔标志与心率
type Diagnostics interface {
	Evaluate(ctx context.Context, samples []float64) (models.Results, error)
}

// Detector 单项检测（房颤、束支传导阻滞、心梗、室颤）
type Detector func(ctx context.Context, samples []float64) (bool, error)

// HeartRateEstimator 心率估计
type HeartRateEstimator func(ctx context.Context, samples []float64) (float64, error)

// Engine 组合四个检测器与心率估计
type Engine struct {
	AtrialFibrillation      Detector
	BundleBranchBlock       Detector
	MyocardialInfarction    Detector
	VentricularFibrillation Detector
	HeartRate               HeartRateEstimator
}

// Evaluate 并行执行全部检测，样本只读共享
func (e *Engine) Evaluate(ctx context.Context, samples []float64) (models.Results, error) {
	var res models.Results
	g, gctx := errgroup.WithContext(ctx)

	detect := func(name string, d Detector, out *bool) {
		g.Go(func() (err error) {
			defer recoverInto(name, &err)
			if d == nil {
				return fmt.Errorf("%s: detector not configured", name)
			}
			v, err := d(gctx, samples)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*out = v
			return nil
		})
	}
	detect("atrial_fibrillation", e.AtrialFibrillation, &res.IsAFib)
	detect("bundle_branch_block", e.BundleBranchBlock, &res.IsBBB)
	detect("myocardial_infarction", e.MyocardialInfarction, &res.IsMCI)
	detect("ventricular_fibrillation", e.VentricularFibrillation, &res.IsVFI)
	g.Go(func() (err error) {
		defer recoverInto("heart_rate", &err)
		if e.HeartRate == nil {
			return fmt.Errorf("heart_rate: estimator not configured")
		}
		hr, err := e.HeartRate(gctx, samples)
		if err != nil {
			return fmt.Errorf("heart_rate: %w", err)
		}
		res.HeartRate = hr
		return nil
	})

	if err := g.Wait(); err != nil {
		return models.Results{}, err
	}
	return res, nil
}

func recoverInto(name string, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%s: panic: %v", name, r)
	}
}

// NotDetected 占位检测器，始终返回 false
func NotDetected(context.Context, []float64) (bool, error) {
	return false, nil
}

// FixedHeartRate 固定心率
func FixedHeartRate(bpm float64) HeartRateEstimator {
	return func(context.Context, []float64) (float64, error) {
		return bpm, nil
	}
}

// RandomHeartRate [min, max] 区间内均匀分布的整数心率
func RandomHeartRate(lo, hi int) HeartRateEstimator {
	if hi < lo {
		lo, hi = hi, lo
	}
	return func(context.Context, []float64) (float64, error) {
		return float64(lo + rand.Intn(hi-lo+1)), nil
	}
}

// NewStub 按配置创建占位诊断引擎
func NewStub(cfg config.DiagnosticsConfig) *Engine {
	var hr HeartRateEstimator
	switch strings.ToLower(cfg.HeartRateMode) {
	case "fixed":
		hr = FixedHeartRate(cfg.FixedHeartRate)
	default:
		lo, hi := cfg.MinHeartRate, cfg.MaxHeartRate
		if lo == 0 && hi == 0 {
			lo, hi = 70, 75
		}
		hr = RandomHeartRate(lo, hi)
	}
	return &Engine{
		AtrialFibrillation:      NotDetected,
		BundleBranchBlock:       NotDetected,
		MyocardialInfarction:    NotDetected,
		VentricularFibrillation: NotDetected,
		HeartRate:               hr,
	}
}
