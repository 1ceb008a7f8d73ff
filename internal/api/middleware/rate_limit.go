package middleware

import (
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimiterConfig параметры ограничителя
type RateLimiterConfig struct {
	Rate  rate.Limit // запросов в секунду
	Burst int
}

// RateLimiter ограничивает частоту запросов к дорогим маршрутам
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter создает ограничитель
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	return &RateLimiter{
		limiter: rate.NewLimiter(cfg.Rate, cfg.Burst),
	}
}

// Limit отвечает 429, если лимит исчерпан
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.limiter.Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"code":429,"message":"слишком много запросов, попробуйте позже"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
