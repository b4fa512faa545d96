package app

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Transport - источник входящих событий чата
type Transport interface {
	Name() string
	// Start блокируется до отмены ctx
	Start(ctx context.Context) error
}

// Runner запускает транспорты параллельно.
// Падение одного транспорта останавливает остальные.
type Runner struct {
	transports []Transport
	logger     *zap.Logger
}

func NewRunner(logger *zap.Logger, transports ...Transport) *Runner {
	return &Runner{
		transports: transports,
		logger:     logger,
	}
}

// Run ждёт завершения всех транспортов
func (r *Runner) Run(ctx context.Context) error {
	if len(r.transports) == 0 {
		return errors.New("no transports to run")
	}

	group, ctx := errgroup.WithContext(ctx)

	for _, transport := range r.transports {
		group.Go(func() error {
			log := r.logger.With(zap.String("transport", transport.Name()))
			log.Info("Starting transport")

			err := transport.Start(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Error("Transport stopped with error", zap.Error(err))
				return err
			}

			log.Info("Transport stopped")
			return nil
		})
	}

	return group.Wait()
}
