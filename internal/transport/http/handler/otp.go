package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/storefront-gate/internal/application/otp"
	"github.com/storefront-gate/internal/domain"
	"github.com/storefront-gate/internal/pkg/validate"
)

// Client-facing messages. The three verification failures share one message
// so callers cannot tell which subjects have a code outstanding.
const (
	msgUserIDRequired    = "User ID is required"
	msgUserIDOTPRequired = "User ID and OTP are required"
	msgInvalidOTP        = "Invalid or expired OTP"
	msgInternal          = "internal server error"
)

// OTPHandler exposes the admin access gate.
type OTPHandler struct {
	svc    otp.Service
	logger *slog.Logger
}

func NewOTPHandler(svc otp.Service, logger *slog.Logger) *OTPHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OTPHandler{svc: svc, logger: logger}
}

// Send handles POST /api/send-otp.
func (h *OTPHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req otp.IssueRequest
	// An unreadable body is reported the same as a missing field.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || validate.Struct(&req) != nil {
		writeError(w, http.StatusBadRequest, msgUserIDRequired)
		return
	}
	if err := h.svc.Issue(r.Context(), req.UserID); err != nil {
		h.httpError(w, r, err, msgUserIDRequired)
		return
	}
	writeJSON(w, http.StatusOK, SuccessEnvelope{Success: true})
}

// Verify handles POST /api/verify-otp.
func (h *OTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req otp.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || validate.Struct(&req) != nil {
		writeError(w, http.StatusBadRequest, msgUserIDOTPRequired)
		return
	}
	if err := h.svc.Verify(r.Context(), req.UserID, req.OTP); err != nil {
		h.httpError(w, r, err, msgUserIDOTPRequired)
		return
	}
	writeJSON(w, http.StatusOK, SuccessEnvelope{Success: true})
}

// httpError maps gate errors to responses. badRequestMsg is the endpoint's
// required-field message.
func (h *OTPHandler) httpError(w http.ResponseWriter, r *http.Request, err error, badRequestMsg string) {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, badRequestMsg)
	case errors.Is(err, domain.ErrInvalidOTP):
		writeError(w, http.StatusBadRequest, msgInvalidOTP)
	default:
		h.logger.ErrorContext(r.Context(), "otp request failed", "path", r.URL.Path, "err", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}
