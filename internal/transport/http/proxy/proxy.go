// Package proxy forwards requests under a path prefix to an upstream origin.
//
// The rewrite rule is fixed: the full original path, prefix included, and the
// raw query are sent to the upstream unchanged. Only scheme, host and the
// Host header change.
package proxy

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/storefront-gate/internal/domain"
)

// ErrorBody is written with status 500 when the upstream cannot be reached.
const ErrorBody = "Proxy error"

// Route is one forwarding rule.
type Route struct {
	Prefix   string
	Upstream *url.URL
}

// NewRoute parses origin and validates prefix.
func NewRoute(prefix, origin string) (Route, error) {
	if !strings.HasPrefix(prefix, "/") || strings.HasSuffix(prefix, "/") {
		return Route{}, fmt.Errorf("proxy prefix %q must start and must not end with '/'", prefix)
	}
	u, err := url.Parse(origin)
	if err != nil {
		return Route{}, fmt.Errorf("parse upstream for %s: %w", prefix, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Route{}, fmt.Errorf("upstream for %s must be an absolute http(s) URL, got %q", prefix, origin)
	}
	return Route{Prefix: prefix, Upstream: u}, nil
}

// Patterns returns the router patterns the route answers: the bare prefix and everything below it.
func (r Route) Patterns() []string {
	return []string{r.Prefix, r.Prefix + "/*"}
}

// Target returns the upstream URL a request for path and rawQuery resolves to.
func (r Route) Target(path, rawQuery string) string {
	u := *r.Upstream
	u.Path = singleJoin(r.Upstream.Path, path)
	u.RawPath = ""
	u.RawQuery = rawQuery
	return u.String()
}

type Options struct {
	Timeout            time.Duration
	InsecureSkipVerify bool
	Logger             *slog.Logger
}

// Proxy is an http.Handler forwarding to one Route.
type Proxy struct {
	route   Route
	rp      *httputil.ReverseProxy
	timeout time.Duration
	logger  *slog.Logger
}

func New(route Route, opts Options) *Proxy {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("upstream", route.Upstream.Host, "prefix", route.Prefix)

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}).DialContext
	transport.ResponseHeaderTimeout = opts.Timeout
	if opts.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for dev upstreams
	}

	p := &Proxy{route: route, timeout: opts.Timeout, logger: logger}
	p.rp = &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(route.Upstream)
			pr.SetXForwarded()
		},
		Transport:      transport,
		ModifyResponse: p.logResponse,
		ErrorHandler:   p.handleError,
	}
	return p
}

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.logger.Info("proxy forward",
		"method", r.Method,
		"path", r.URL.Path,
		"target", p.route.Target(r.URL.Path, r.URL.RawQuery))

	ctx := r.Context()
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	p.rp.ServeHTTP(w, r.WithContext(ctx))
}

func (p *Proxy) logResponse(resp *http.Response) error {
	p.logger.Info("proxy response",
		"method", resp.Request.Method,
		"path", resp.Request.URL.Path,
		"status", resp.StatusCode)
	return nil
}

func (p *Proxy) handleError(w http.ResponseWriter, r *http.Request, err error) {
	level := slog.LevelError
	if errors.Is(err, context.Canceled) {
		// Client went away; nothing useful reaches it anyway.
		level = slog.LevelWarn
	}
	p.logger.Log(r.Context(), level, "proxy error",
		"method", r.Method,
		"path", r.URL.Path,
		"err", fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": ErrorBody})
}

func singleJoin(a, b string) string {
	switch {
	case a == "":
		return b
	case strings.HasSuffix(a, "/") && strings.HasPrefix(b, "/"):
		return a + b[1:]
	case !strings.HasSuffix(a, "/") && !strings.HasPrefix(b, "/"):
		return a + "/" + b
	}
	return a + b
}
