package app

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/pto_bot/internal/calendar"
	"github.com/Freeeeeet/pto_bot/internal/config"
	"github.com/Freeeeeet/pto_bot/internal/service"
	"github.com/Freeeeeet/pto_bot/internal/timewindow"
	"go.uber.org/zap"
)

// Application - всё состояние процесса, создаётся в main и передаётся явно
type Application struct {
	Config   *config.Config
	Logger   *zap.Logger
	Storage  *Storage
	Gateway  calendar.Gateway
	Registry *service.ChannelRegistry
	Resolver *timewindow.Resolver
}

// New открывает хранилище и создаёт клиент календаря
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Application, error) {
	storage, err := OpenStorage(ctx, cfg.DBDSN, logger)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	gateway, err := calendar.NewGateway(ctx, calendar.GatewayConfig{
		Provider:              cfg.CalendarProvider,
		Timeout:               cfg.CalendarTimeout,
		GoogleCredentialsFile: cfg.GoogleCredentialsFile,
		GoogleImpersonate:     cfg.GoogleImpersonate,
		CalDAVURL:             cfg.CalDAVURL,
		CalDAVUsername:        cfg.CalDAVUsername,
		CalDAVPassword:        cfg.CalDAVPassword,
	}, logger)
	if err != nil {
		storage.Close()
		return nil, fmt.Errorf("create calendar gateway: %w", err)
	}

	return &Application{
		Config:   cfg,
		Logger:   logger,
		Storage:  storage,
		Gateway:  gateway,
		Registry: service.NewChannelRegistry(storage.Channels, cfg.DefaultCalendarID, logger),
		Resolver: timewindow.NewResolver(cfg.Location()),
	}, nil
}

// NewPTOService создаёт оркестратор для одной чат-платформы
func (a *Application) NewPTOService(messenger service.Messenger, defaultChannel string) *service.PTOService {
	return service.NewPTOService(
		a.Storage.Links,
		a.Registry,
		a.Gateway,
		messenger,
		a.Resolver,
		service.Options{
			DefaultChannel: defaultChannel,
			VerifyOnBind:   a.Config.VerifyOnBind,
		},
		a.Logger,
	)
}

// Close освобождает хранилище
func (a *Application) Close() {
	a.Storage.Close()
}
