package api

import (
	"context"
	"errors"
	"io"

	"ecgenius/models"

	"github.com/gin-gonic/gin"
)

// IDGenerator 生成预测编号与 UTC 时间戳
type IDGenerator interface {
	Generate() (predictionID, timestamp string, err error)
}

// RegistrationNotifier 登记成功后的通知，失败不影响登记结果
type RegistrationNotifier interface {
	NotifyRegistration(ctx context.Context, rec *models.PredictionRecord) error
}

// readBody 读取原始请求体
func readBody(c *gin.Context) ([]byte, error) {
	if c.Request.Body == nil {
		return nil, nil
	}
	return io.ReadAll(c.Request.Body)
}

// respondInvalid 将校验错误写为 400，返回是否已处理
func respondInvalid(c *gin.Context, err error) bool {
	var ie *InvalidInputError
	if errors.As(err, &ie) {
		InvalidInput(c, ie)
		return true
	}
	return false
}
