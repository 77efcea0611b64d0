package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/park285/CardJitsu-KakaoTalk-bot/internal/duel"
	"github.com/park285/CardJitsu-KakaoTalk-bot/pkg/jitsudto"
)

// Pinger checks a backing store; a nil Pinger is reported as "disabled".
type Pinger func(ctx context.Context) error

// NewRouter exposes read-only duel state for operators.
func NewRouter(svc *duel.Service, redisPing Pinger, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := gin.New()
	r.Use(gin.Recovery(), accessLog(logger))

	r.GET("/healthz", HealthHandler(svc, redisPing))
	r.GET("/duels", ListDuelsHandler(svc))
	r.GET("/duels/:userID", DuelHandler(svc))
	r.GET("/profiles/:userID", ProfileHandler(svc))
	return r
}

// HealthHandler answers 503 when Redis is configured but unreachable.
func HealthHandler(svc *duel.Service, redisPing Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := jitsudto.Health{Status: "ok", ActiveDuels: len(svc.Active()), Redis: "disabled"}
		if redisPing != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := redisPing(ctx); err != nil {
				h.Status, h.Redis = "degraded", err.Error()
				c.JSON(http.StatusServiceUnavailable, h)
				return
			}
			h.Redis = "ok"
		}
		c.JSON(http.StatusOK, h)
	}
}

func ListDuelsHandler(svc *duel.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		snaps := svc.Active()
		out := jitsudto.DuelList{Count: len(snaps), Duels: make([]jitsudto.DuelSummary, 0, len(snaps))}
		for _, s := range snaps {
			out.Duels = append(out.Duels, s.Summary(now))
		}
		c.JSON(http.StatusOK, out)
	}
}

func DuelHandler(svc *duel.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := svc.Status(c.Param("userID"))
		if err != nil {
			c.JSON(http.StatusNotFound, jitsudto.DomainError{Code: "not_in_game", Message: err.Error()})
			return
		}
		c.JSON(http.StatusOK, snap.Summary(time.Now()))
	}
}

func ProfileHandler(svc *duel.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userID")
		p, err := svc.Profile(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, jitsudto.DomainError{Code: "profile_failed", Message: err.Error()})
			return
		}
		if p == nil {
			c.JSON(http.StatusNotFound, jitsudto.DomainError{Code: "no_record"})
			return
		}
		out := jitsudto.Profile{
			UserID: p.UserID,
			Name:   p.Name,
			Wins:   p.Wins,
			Losses: p.Losses,
			Draws:  p.Draws,
			Played: p.Played(),
		}
		if !p.LastPlayedAt.IsZero() {
			t := p.LastPlayedAt
			out.LastPlayedAt = &t
		}
		c.JSON(http.StatusOK, out)
	}
}

func accessLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http_request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}
