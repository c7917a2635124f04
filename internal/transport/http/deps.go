package http

import (
	"log/slog"

	"github.com/storefront-gate/internal/application/otp"
	"github.com/storefront-gate/internal/transport/http/proxy"
)

// Deps holds everything the router dispatches to.
type Deps struct {
	OTPService otp.Service
	// Routes are the proxy rules, evaluated after the gate endpoints.
	Routes []proxy.Route
	Logger *slog.Logger
}
