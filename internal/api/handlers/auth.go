package handlers

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/hibiken/asynq"
	"github.com/hugh/lawconnect/internal/api/dto"
	"github.com/hugh/lawconnect/internal/api/middleware"
	"github.com/hugh/lawconnect/internal/auth"
	"github.com/hugh/lawconnect/internal/metrics"
	"github.com/hugh/lawconnect/internal/tasks"
)

const forgotPasswordMessage = "If an account exists for that email, a password reset link has been sent"

// TaskEnqueuer is the part of *asynq.Client the handlers use.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type AuthHandler struct {
	authService auth.Authenticator
	ledger      auth.ResetLedger
	queue       TaskEnqueuer
	rs          *Responder
	exposeReset bool
}

// NewAuthHandler wires the auth endpoints. queue may be nil, in which case
// reset notices are not delivered out of band. With exposeResetURL the
// forgot-password response carries the link itself.
func NewAuthHandler(authService auth.Authenticator, ledger auth.ResetLedger, queue TaskEnqueuer, rs *Responder, exposeResetURL bool) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		ledger:      ledger,
		queue:       queue,
		rs:          rs,
		exposeReset: exposeResetURL,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !h.rs.Decode(w, r, &req) {
		return
	}

	resp, err := h.authService.Register(r.Context(), req.Input())
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}

	h.rs.JSON(w, http.StatusCreated, dto.OKMessage("User registered successfully", dto.NewAuthResponse(resp)))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !h.rs.Decode(w, r, &req) {
		return
	}

	resp, err := h.authService.Login(r.Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}

	h.rs.OK(w, "Login successful", dto.NewAuthResponse(resp))
}

// ForgotPassword answers the same way whether or not the email is known.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ForgotPasswordRequest
	if !h.rs.Decode(w, r, &req) {
		return
	}

	reset, err := h.ledger.RequestReset(r.Context(), req.Email, auth.RequestMeta{
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
	})
	if errors.Is(err, auth.ErrUserNotFound) {
		metrics.PasswordResetsTotal.WithLabelValues("unknown_email").Inc()
		h.rs.logger.Info("password reset requested for unknown email")
		h.rs.OK(w, forgotPasswordMessage, nil)
		return
	}
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	metrics.PasswordResetsTotal.WithLabelValues("requested").Inc()

	resetURL := h.ledger.ResetURL(reset.Token)
	h.enqueueNotice(r.Context(), tasks.ResetNotifyPayload{
		UserID:    reset.UserID,
		Email:     reset.User.Email,
		Name:      reset.User.Name,
		ResetURL:  resetURL,
		ExpiresAt: reset.ExpiresAt,
	})

	var data interface{}
	if h.exposeReset {
		data = dto.ForgotPasswordResponse{ResetURL: resetURL}
	}
	h.rs.OK(w, forgotPasswordMessage, data)
}

// enqueueNotice never fails the request; the token is already stored and the
// user can ask again.
func (h *AuthHandler) enqueueNotice(ctx context.Context, payload tasks.ResetNotifyPayload) {
	if h.queue == nil {
		return
	}

	task, err := tasks.NewResetNotifyTask(payload)
	if err != nil {
		h.rs.logger.Error("building reset notice task", "user_id", payload.UserID, "error", err)
		return
	}
	if _, err := h.queue.EnqueueContext(ctx, task); err != nil {
		h.rs.logger.Warn("enqueueing reset notice", "user_id", payload.UserID, "error", err)
	}
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetPasswordRequest
	if !h.rs.Decode(w, r, &req) {
		return
	}

	if err := h.ledger.Consume(r.Context(), req.Token, req.Password); err != nil {
		metrics.PasswordResetsTotal.WithLabelValues(resetOutcome(err)).Inc()
		h.rs.Error(w, r, err)
		return
	}
	metrics.PasswordResetsTotal.WithLabelValues("consumed").Inc()

	h.rs.OK(w, "Password has been reset successfully", nil)
}

func resetOutcome(err error) string {
	switch {
	case errors.Is(err, auth.ErrResetTokenExpired):
		return "expired"
	case errors.Is(err, auth.ErrResetTokenUsed):
		return "used"
	default:
		return "invalid"
	}
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.GetUserByID(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}

	h.rs.OK(w, "", dto.UserResponse{User: dto.NewUserDTO(user)})
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateProfileRequest
	if !h.rs.Decode(w, r, &req) {
		return
	}

	user, err := h.authService.UpdateProfile(r.Context(), middleware.GetUserID(r.Context()), req.Input())
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}

	h.rs.OK(w, "Profile updated successfully", dto.UserResponse{User: dto.NewUserDTO(user)})
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ChangePasswordRequest
	if !h.rs.Decode(w, r, &req) {
		return
	}

	err := h.authService.ChangePassword(r.Context(), middleware.GetUserID(r.Context()), req.CurrentPassword, req.NewPassword)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}

	h.rs.OK(w, "Password changed successfully", nil)
}

// Logout is stateless; the client discards its token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.rs.OK(w, "Logged out successfully", nil)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
