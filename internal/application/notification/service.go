package notification

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/storefront-gate/internal/domain"
)

// Sink delivers a notification to one external channel.
type Sink interface {
	Name() string
	Send(ctx context.Context, n *domain.Notification) error
}

// Report describes how a notification was delivered.
type Report struct {
	Delivered []string // names of primary sinks that accepted it
	Failed    []string
	Fallback  bool // the diagnostic sink was used
}

// Service delivers notifications with a two-tier policy: every primary sink
// is tried concurrently under one timeout, and if none accepts the message
// it goes to the diagnostic fallback instead.
type Service interface {
	Deliver(ctx context.Context, n *domain.Notification) Report
}

type service struct {
	primaries []Sink
	fallback  Sink
	timeout   time.Duration
	logger    *slog.Logger
}

func NewService(primaries []Sink, fallback Sink, timeout time.Duration, logger *slog.Logger) Service {
	return &service{
		primaries: primaries,
		fallback:  fallback,
		timeout:   timeout,
		logger:    logger,
	}
}

// Deliver never returns an error: sink failures are logged and recovered here.
// The caller's cancellation is ignored so a disconnected client does not
// abort delivery; the timeout still bounds it.
func (s *service) Deliver(ctx context.Context, n *domain.Notification) Report {
	var rep Report
	if len(s.primaries) > 0 {
		rep = s.fanOut(context.WithoutCancel(ctx), n)
	}
	if len(rep.Delivered) > 0 {
		return rep
	}

	rep.Fallback = true
	if err := s.fallback.Send(ctx, n); err != nil {
		s.logger.Error("diagnostic fallback failed", "id", n.ID, "sink", s.fallback.Name(), "err", err)
	}
	return rep
}

func (s *service) fanOut(ctx context.Context, n *domain.Notification) Report {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	errs := make([]error, len(s.primaries))
	var wg sync.WaitGroup
	for i, sink := range s.primaries {
		wg.Add(1)
		go func(i int, sink Sink) {
			defer wg.Done()
			errs[i] = sink.Send(ctx, n)
		}(i, sink)
	}
	wg.Wait()

	var rep Report
	for i, sink := range s.primaries {
		if errs[i] != nil {
			rep.Failed = append(rep.Failed, sink.Name())
			s.logger.Warn("notification sink failed",
				"id", n.ID, "sink", sink.Name(), "user_id", n.SubjectID,
				"err", fmt.Errorf("%w: %v", domain.ErrSinkUnavailable, errs[i]))
			continue
		}
		rep.Delivered = append(rep.Delivered, sink.Name())
	}
	return rep
}

// LogSink is the diagnostic fallback. It writes the full message, passcode
// included, to the server log so operators are not locked out while the
// primary channel is down. Anyone with log access can read it.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink { return &LogSink{logger: logger} }

func (l *LogSink) Name() string { return "diagnostic-log" }

func (l *LogSink) Send(ctx context.Context, n *domain.Notification) error {
	l.logger.WarnContext(ctx, "notification delivered to diagnostic log",
		"id", n.ID, "user_id", n.SubjectID, "subject", n.Subject, "message", n.Body)
	return nil
}
