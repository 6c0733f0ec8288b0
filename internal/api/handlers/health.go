package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/hugh/lawconnect/internal/database"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client
	rs    *Responder
}

// NewHealthHandler builds the probes. redis may be nil when the server runs
// without it.
func NewHealthHandler(db *gorm.DB, redis *redis.Client, rs *Responder) *HealthHandler {
	return &HealthHandler{db: db, redis: redis, rs: rs}
}

type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
	Time     time.Time         `json:"timestamp"`
}

// Health reports each dependency and answers 503 if any is down.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	services := make(map[string]string)
	status := "healthy"

	if err := database.Ping(ctx, h.db); err != nil {
		services["database"] = "unhealthy"
		status = "unhealthy"
	} else {
		services["database"] = "healthy"
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			services["redis"] = "unhealthy"
			status = "unhealthy"
		} else {
			services["redis"] = "healthy"
		}
	}

	statusCode := http.StatusOK
	if status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	h.rs.JSON(w, statusCode, HealthResponse{
		Status:   status,
		Services: services,
		Time:     time.Now().UTC(),
	})
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
