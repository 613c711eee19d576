package api

import (
	"ecgenius/config"
)

// SafeErrorMessage 按配置决定是否向客户端回显内部错误详情
func SafeErrorMessage(err error, fallback string) string {
	return config.SafeErrorMessage(err, fallback)
}
