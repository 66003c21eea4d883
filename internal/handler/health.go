package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

// HealthHandler reports liveness and the readiness of the three backing
// services the store depends on: Postgres, the product cache, and the
// fulfilment queue.
type HealthHandler struct {
	dbPool   *pgxpool.Pool
	cache    *redis.Client
	amqpConn *amqp.Connection
}

func NewHealthHandler(dbPool *pgxpool.Pool, cache *redis.Client, amqpConn *amqp.Connection) *HealthHandler {
	return &HealthHandler{dbPool: dbPool, cache: cache, amqpConn: amqpConn}
}

func (h *HealthHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readyz fails on the first unreachable dependency so load balancers can
// take the instance out of rotation.
func (h *HealthHandler) Readyz(c *gin.Context) {
	ctx := c.Request.Context()

	checks := gin.H{"postgres": "connected", "redis": "connected", "rabbitmq": "connected"}

	if err := h.dbPool.Ping(ctx); err != nil {
		checks["postgres"] = "unavailable"
	}
	if err := h.cache.Ping(ctx).Err(); err != nil {
		checks["redis"] = "unavailable"
	}
	if h.amqpConn.IsClosed() {
		checks["rabbitmq"] = "unavailable"
	}

	for _, v := range checks {
		if v == "unavailable" {
			checks["status"] = "error"
			c.JSON(http.StatusServiceUnavailable, checks)
			return
		}
	}

	checks["status"] = "ok"
	c.JSON(http.StatusOK, checks)
}
