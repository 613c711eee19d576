package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"regexp"
	"sync"
	"sync/atomic"
	"time"

	"ecgenius/logger"

	"github.com/gin-gonic/gin"
)

// AuditEntry 一条请求审计记录
type AuditEntry struct {
	Time          time.Time
	RequestID     string
	Method        string
	Path          string
	Query         map[string][]string
	Body          string
	BodyTruncated bool
	BodyError     string
	ClientIP      string
}

// AuditLogger 请求审计日志
// 请求路径上只做非阻塞入队，缓冲区满或已关闭时直接丢弃，写日志由后台协程完成
type AuditLogger struct {
	log       *logger.Logger
	entries   chan AuditEntry
	bodyLimit int
	dropped   atomic.Int64

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewAuditLogger 创建审计日志并启动写入协程
func NewAuditLogger(log *logger.Logger, buffer, bodyLimit int) *AuditLogger {
	if buffer <= 0 {
		buffer = 256
	}
	if bodyLimit <= 0 {
		bodyLimit = 64 << 10
	}
	a := &AuditLogger{
		log:       log,
		entries:   make(chan AuditEntry, buffer),
		bodyLimit: bodyLimit,
		done:      make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *AuditLogger) run() {
	defer close(a.done)
	for e := range a.entries {
		a.write(e)
	}
}

func (a *AuditLogger) write(e AuditEntry) {
	defer func() {
		// 日志输出异常不能影响后续条目
		_ = recover()
	}()
	fields := []interface{}{
		"time", e.Time.Format(time.RFC3339Nano),
		"method", e.Method,
		"path", e.Path,
		"query", e.Query,
		"body", e.Body,
		"client_ip", e.ClientIP,
	}
	if e.RequestID != "" {
		fields = append(fields, "request_id", e.RequestID)
	}
	if e.BodyTruncated {
		fields = append(fields, "body_truncated", true)
	}
	if e.BodyError != "" {
		fields = append(fields, "body_error", e.BodyError)
	}
	a.log.Info("ECGenius request", fields...)
}

// Enqueue 非阻塞入队，返回是否成功
func (a *AuditLogger) Enqueue(e AuditEntry) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		a.dropped.Add(1)
		return false
	}
	select {
	case a.entries <- e:
		return true
	default:
		a.dropped.Add(1)
		return false
	}
}

// Dropped 被丢弃的条目数
func (a *AuditLogger) Dropped() int64 {
	return a.dropped.Load()
}

// Close 停止接收并等待缓冲区写完
func (a *AuditLogger) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		<-a.done
		return
	}
	a.closed = true
	close(a.entries)
	a.mu.Unlock()
	<-a.done
}

// Middleware 在处理请求前记录时间、方法、路径、查询参数与原始请求体
// 请求体读取后原样交还给后续处理器
func (a *AuditLogger) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		func() {
			defer func() {
				_ = recover()
			}()
			a.Enqueue(a.capture(c))
		}()
		c.Next()
	}
}

func (a *AuditLogger) capture(c *gin.Context) AuditEntry {
	e := AuditEntry{
		Time:      time.Now(),
		RequestID: GetRequestID(c),
		Method:    c.Request.Method,
		Path:      c.Request.URL.Path,
		Query:     c.Request.URL.Query(),
		ClientIP:  c.ClientIP(),
	}
	if c.Request.Body == nil {
		return e
	}

	orig := c.Request.Body
	head, err := io.ReadAll(io.LimitReader(orig, int64(a.bodyLimit)+1))
	// 已读部分拼回原始流，后续处理器看到完整请求体（包括读取错误）
	c.Request.Body = &replayBody{Reader: io.MultiReader(bytes.NewReader(head), orig), closer: orig}
	if err != nil {
		e.BodyError = err.Error()
	}
	if len(head) > a.bodyLimit {
		head = head[:a.bodyLimit]
		e.BodyTruncated = true
		e.Body = redactPrefix(head)
		return e
	}
	e.Body = redactBody(head)
	return e
}

type replayBody struct {
	io.Reader
	closer io.Closer
}

func (r *replayBody) Close() error { return r.closer.Close() }

var redactedBodyKeys = []string{"name", "phone_no"}

// truncatedFieldPattern 截断的请求体不是合法 JSON，按文本匹配键值，值可能在截断处未闭合
var truncatedFieldPattern = regexp.MustCompile(`"(name|phone_no)"\s*:\s*(?:"(?:[^"\\]|\\.)*(?:"|\\?$)|[^,}\s]*)`)

// redactPrefix 截断后的请求体前缀按文本脱敏
func redactPrefix(head []byte) string {
	return truncatedFieldPattern.ReplaceAllString(string(head), `"$1":"[REDACTED]"`)
}

// redactBody JSON 对象中的患者身份字段替换为 [REDACTED]，非 JSON 原样返回
func redactBody(body []byte) string {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return string(body)
	}
	changed := false
	for _, k := range redactedBodyKeys {
		if _, ok := obj[k]; ok {
			obj[k] = json.RawMessage(`"[REDACTED]"`)
			changed = true
		}
	}
	if !changed {
		return string(body)
	}
	out, err := json.Marshal(obj)
	if err != nil {
		return string(body)
	}
	return string(out)
}
