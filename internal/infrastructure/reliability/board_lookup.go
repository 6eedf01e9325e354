package reliability

import (
	"context"
	"errors"

	"inknet/internal/core/domain"
	"inknet/internal/core/ports"
	"inknet/pkg/circuitbreaker"
	"inknet/pkg/retry"

	"go.uber.org/zap"
)

// BoardLookup wraps an AccessRecordSource with retry logic and a circuit
// breaker. It sits on the hub's join path, where the access-record fetch is
// the only external dependency: transient backend failures are retried inside
// the caller's deadline, and a persistently failing backend trips the breaker
// so joins fail fast instead of piling up on a dead store.
type BoardLookup struct {
	source ports.AccessRecordSource
	logger *zap.SugaredLogger

	retryConfig retry.Config
	breaker     *circuitbreaker.CircuitBreaker
}

func NewBoardLookup(
	source ports.AccessRecordSource,
	retryConfig retry.Config,
	breakerConfig circuitbreaker.Config,
	logger *zap.SugaredLogger,
) *BoardLookup {
	w := &BoardLookup{
		source:      source,
		logger:      logger,
		retryConfig: retryConfig,
		breaker:     circuitbreaker.New(breakerConfig),
	}

	// Not-found is a valid lookup outcome, never a reason to back off.
	w.retryConfig.NonRetryableErrors = append(w.retryConfig.NonRetryableErrors, domain.ErrBoardNotFound)

	w.breaker.OnStateChange(func(from, to circuitbreaker.State) {
		logger.Warnw("board lookup circuit breaker state changed",
			"from", from.String(),
			"to", to.String(),
		)
	})

	return w
}

// FetchAccessRecord fetches the board's access record through the breaker,
// retrying transient failures. The context deadline set by the caller bounds
// the whole attempt chain.
func (w *BoardLookup) FetchAccessRecord(ctx context.Context, id domain.BoardID) (*domain.Board, error) {
	var (
		board     *domain.Board
		lookupErr error
	)

	err := retry.Do(ctx, w.retryConfig, func() error {
		lookupErr = nil
		return w.breaker.Execute(func() error {
			b, ferr := w.source.FetchAccessRecord(ctx, id)
			if ferr != nil {
				if errors.Is(ferr, domain.ErrBoardNotFound) {
					// Expected outcome; keep it out of the breaker's
					// failure count.
					lookupErr = ferr
					return nil
				}
				return ferr
			}
			board = b
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, circuitbreaker.ErrOpen) {
			w.logger.Warnw("board lookup rejected by open circuit breaker", "board_id", id)
		}
		return nil, err
	}
	if lookupErr != nil {
		return nil, lookupErr
	}
	return board, nil
}

// BreakerState exposes the breaker state for health reporting.
func (w *BoardLookup) BreakerState() circuitbreaker.State {
	return w.breaker.State()
}
