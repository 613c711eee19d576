package service

import (
	"context"
	"sync"
	"time"

	"ecgenius/logger"
	"ecgenius/models"
)

// AsyncNotifier 在后台协程中发送通知，失败只记日志，不影响接口返回
type AsyncNotifier struct {
	next    Notifier
	log     *logger.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewAsyncNotifier 包装同步通知器
func NewAsyncNotifier(next Notifier, log *logger.Logger, timeout time.Duration) *AsyncNotifier {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &AsyncNotifier{next: next, log: log, timeout: timeout}
}

// NotifyRegistration 立即返回 nil，发送在后台进行
func (n *AsyncNotifier) NotifyRegistration(_ context.Context, rec *models.PredictionRecord) error {
	snapshot := rec.Clone()
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		if err := n.next.NotifyRegistration(ctx, snapshot); err != nil {
			n.log.Warn("registration notification failed", "prediction_id", snapshot.PredictionID, "error", err)
		}
	}()
	return nil
}

// Wait 等待进行中的通知发送完毕（优雅退出时调用）
func (n *AsyncNotifier) Wait() {
	n.wg.Wait()
}
