package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/storefront-gate/internal/application/notification"
	"github.com/storefront-gate/internal/domain"
	"github.com/storefront-gate/internal/pkg/clock"
	"github.com/storefront-gate/internal/pkg/id"
)

// DefaultTTL is how long an issued code stays valid.
const DefaultTTL = 5 * time.Minute

// IssueRequest is the body of POST /api/send-otp.
type IssueRequest struct {
	UserID string `json:"userId" validate:"required,notblank"`
}

// VerifyRequest is the body of POST /api/verify-otp.
type VerifyRequest struct {
	UserID string `json:"userId" validate:"required,notblank"`
	OTP    string `json:"otp" validate:"required,notblank"`
}

// Service is the admin access gate. Subject IDs are taken as given by the
// caller; nothing binds them to an authenticated identity.
type Service interface {
	// Issue generates a fresh code for subjectID, replacing any outstanding one,
	// and sends it out of band. The code is never returned.
	Issue(ctx context.Context, subjectID string) error
	// Verify consumes the outstanding code for subjectID if code matches and
	// has not expired. Every content failure wraps domain.ErrInvalidOTP.
	Verify(ctx context.Context, subjectID, code string) error
}

// Store holds outstanding codes keyed by subject.
type Store interface {
	Put(ctx context.Context, v *domain.OTPRecord) error
	Get(ctx context.Context, subjectID string) (*domain.OTPRecord, error)
	CompareAndDelete(ctx context.Context, v *domain.OTPRecord) (bool, error)
}

// Notifier hands a notification to the delivery policy.
type Notifier interface {
	Deliver(ctx context.Context, n *domain.Notification) notification.Report
}

// ServiceDeps groups the collaborators of the gate. Zero-valued optional
// fields get production defaults.
type ServiceDeps struct {
	Store    Store
	Notifier Notifier
	Clock    clock.Clock
	Logger   *slog.Logger
	TTL      time.Duration
	// Generate returns a 6-digit code; defaults to crypto/rand.
	Generate func() (string, error)
}

type service struct {
	store    Store
	notifier Notifier
	clock    clock.Clock
	logger   *slog.Logger
	ttl      time.Duration
	generate func() (string, error)
}

func NewService(d ServiceDeps) Service {
	s := &service{
		store:    d.Store,
		notifier: d.Notifier,
		clock:    d.Clock,
		logger:   d.Logger,
		ttl:      d.TTL,
		generate: d.Generate,
	}
	if s.clock == nil {
		s.clock = clock.Real()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.ttl <= 0 {
		s.ttl = DefaultTTL
	}
	if s.generate == nil {
		s.generate = GenerateCode
	}
	return s
}

func (s *service) Issue(ctx context.Context, subjectID string) error {
	if strings.TrimSpace(subjectID) == "" {
		return fmt.Errorf("user id required: %w", domain.ErrBadRequest)
	}

	code, err := s.generate()
	if err != nil {
		return err
	}
	now := s.clock.Now()
	v := &domain.OTPRecord{
		SubjectID: subjectID,
		Code:      code,
		ExpiresAt: now.Add(s.ttl),
	}
	// The record must exist before anyone can receive the code.
	if err := s.store.Put(ctx, v); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}

	n := &domain.Notification{
		ID:        id.NewAt(now),
		SubjectID: subjectID,
		Subject:   "Admin access code",
		Body:      fmt.Sprintf("OTP for user %s: %s (valid for %s)", subjectID, code, s.ttl),
		CreatedAt: now.UTC(),
	}
	rep := s.notifier.Deliver(ctx, n)
	s.logger.Info("otp issued",
		"user_id", subjectID, "notification_id", n.ID,
		"delivered", rep.Delivered, "fallback", rep.Fallback)
	return nil
}

func (s *service) Verify(ctx context.Context, subjectID, code string) error {
	if strings.TrimSpace(subjectID) == "" || strings.TrimSpace(code) == "" {
		return fmt.Errorf("user id and otp required: %w", domain.ErrBadRequest)
	}

	v, err := s.store.Get(ctx, subjectID)
	if errors.Is(err, domain.ErrNotFound) {
		return s.reject(subjectID, "not_found", fmt.Errorf("no otp outstanding: %w: %w", domain.ErrNotFound, domain.ErrInvalidOTP))
	}
	if err != nil {
		return fmt.Errorf("load otp: %w", err)
	}

	if v.Expired(s.clock.Now()) {
		if _, err := s.store.CompareAndDelete(ctx, v); err != nil {
			s.logger.Warn("failed to delete expired otp", "user_id", subjectID, "err", err)
		}
		return s.reject(subjectID, "expired", fmt.Errorf("otp expired at %s: %w", v.ExpiresAt.UTC().Format(time.RFC3339), domain.ErrExpired))
	}

	if subtle.ConstantTimeCompare([]byte(v.Code), []byte(code)) != 1 {
		return s.reject(subjectID, "mismatch", fmt.Errorf("otp does not match: %w", domain.ErrMismatch))
	}

	consumed, err := s.store.CompareAndDelete(ctx, v)
	if err != nil {
		return fmt.Errorf("consume otp: %w", err)
	}
	if !consumed {
		// Another verification or a re-issue got there first.
		return s.reject(subjectID, "already_consumed", fmt.Errorf("otp no longer outstanding: %w: %w", domain.ErrNotFound, domain.ErrInvalidOTP))
	}

	s.logger.Info("otp verified", "user_id", subjectID)
	return nil
}

func (s *service) reject(subjectID, reason string, err error) error {
	s.logger.Info("otp verification failed", "user_id", subjectID, "reason", reason)
	return err
}

// GenerateCode returns a uniformly random code in [100000, 999999].
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
