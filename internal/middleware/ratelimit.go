package middleware

import (
	"fmt"
	"net/http"
	"time"

	"zoovio-backend/internal/cache"
	"zoovio-backend/internal/dto"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimit ограничивает число запросов с одного IP на именованную группу
// маршрутов. При nil-клиенте (Redis выключен) пропускает всё.
func RateLimit(rdb *cache.RedisClient, name string, limit int64, window time.Duration, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("%s:%s", name, c.ClientIP())
		n, err := rdb.IncrRateLimit(c.Request.Context(), key, window)
		if err != nil {
			// Redis недоступен — не блокируем трафик.
			log.Warn("Rate limit: ошибка Redis, запрос пропущен", zap.Error(err))
			c.Next()
			return
		}
		if n > limit {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewError(dto.CodeRateLimited, "too many requests"))
			return
		}
		c.Next()
	}
}
