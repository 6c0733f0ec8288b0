package handlers

import (
	"net/http"

	"github.com/hugh/lawconnect/internal/api/dto"
	"github.com/hugh/lawconnect/internal/api/middleware"
	"github.com/hugh/lawconnect/internal/metrics"
	"github.com/hugh/lawconnect/internal/tasks"
)

type AdminHandler struct {
	sweeper tasks.Sweeper
	rs      *Responder
}

func NewAdminHandler(sweeper tasks.Sweeper, rs *Responder) *AdminHandler {
	return &AdminHandler{sweeper: sweeper, rs: rs}
}

// SweepResetTokens runs the expired reset token sweep inline, the same work
// the worker does on its schedule.
func (h *AdminHandler) SweepResetTokens(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.sweeper.SweepExpired(r.Context())
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	metrics.ResetTokensSweptTotal.Add(float64(deleted))

	h.rs.logger.Info("reset tokens swept",
		"deleted", deleted,
		"admin_id", middleware.GetUserID(r.Context()),
	)
	h.rs.OK(w, "Expired reset tokens removed", dto.SweepResponse{Deleted: deleted})
}
