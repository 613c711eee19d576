package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimit 按客户端 IP 的滑动窗口限流中间件
// 每 IP 每个窗口最多 maxRequests 次请求，超过则返回 429
func RateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	type entry struct {
		timestamps []time.Time
	}
	var (
		mu        sync.Mutex
		store     = make(map[string]*entry)
		lastSweep = time.Now()
	)

	prune := func(e *entry, cutoff time.Time) {
		newTs := e.timestamps[:0]
		for _, t := range e.timestamps {
			if t.After(cutoff) {
				newTs = append(newTs, t)
			}
		}
		e.timestamps = newTs
	}

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()
		cutoff := now.Add(-window)

		mu.Lock()
		// 每个窗口顺带清理一次过期 IP，避免常驻清理协程
		if now.Sub(lastSweep) > window {
			for k, e := range store {
				prune(e, cutoff)
				if len(e.timestamps) == 0 {
					delete(store, k)
				}
			}
			lastSweep = now
		}
		e, ok := store[ip]
		if !ok {
			e = &entry{}
			store[ip] = e
		}
		prune(e, cutoff)
		if len(e.timestamps) >= maxRequests {
			mu.Unlock()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests, please retry later.",
			})
			c.Abort()
			return
		}
		e.timestamps = append(e.timestamps, now)
		mu.Unlock()
		c.Next()
	}
}
