package calendar

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	ProviderGoogle = "google"
	ProviderCalDAV = "caldav"
)

// GatewayConfig - настройки для NewGateway
type GatewayConfig struct {
	Provider string
	Timeout  time.Duration

	GoogleCredentialsFile string
	GoogleImpersonate     string

	CalDAVURL      string
	CalDAVUsername string
	CalDAVPassword string
}

// NewGateway создаёт gateway нужного провайдера
func NewGateway(ctx context.Context, cfg GatewayConfig, logger *zap.Logger) (Gateway, error) {
	switch cfg.Provider {
	case ProviderGoogle:
		return NewGoogleGateway(ctx, cfg.GoogleCredentialsFile, cfg.GoogleImpersonate, cfg.Timeout, logger)
	case ProviderCalDAV:
		return NewCalDAVGateway(cfg.CalDAVURL, cfg.CalDAVUsername, cfg.CalDAVPassword, cfg.Timeout, logger)
	default:
		return nil, fmt.Errorf("unsupported calendar provider: %s", cfg.Provider)
	}
}
