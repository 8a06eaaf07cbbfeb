package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"github.com/xela07ax/bestcdn-board/internal/domain"
	"go.uber.org/zap"
)

// BreakerSettings — параметры предохранителя хранилища.
type BreakerSettings struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration // Через сколько CB попробует "закрыться"
	FailureThreshold uint32        // Столько подряд недоступностей — и открываемся
}

// GuardedReader оборачивает KVReader в Circuit Breaker.
// Повторов нет: при лежащем хранилище страница сразу получает ErrStoreUnavailable,
// а не ждёт сетевые таймауты на каждом из четырёх ключей.
type GuardedReader struct {
	next KVReader
	cb   *gobreaker.CircuitBreaker
}

func NewGuardedReader(next KVReader, s BreakerSettings, logger *zap.Logger, onState func(gobreaker.State)) *GuardedReader {
	threshold := s.FailureThreshold
	if threshold == 0 {
		threshold = 1
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "kv-store",
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// Отсутствующий ключ, сбой одного ключа или ушедший клиент не открывают предохранитель
		IsSuccessful: func(err error) bool {
			if err == nil || domain.IsCanceled(err) {
				return true
			}
			return !errors.Is(err, domain.ErrStoreUnavailable)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("store circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
			if onState != nil {
				onState(to)
			}
		},
	})

	return &GuardedReader{next: next, cb: cb}
}

func (g *GuardedReader) Get(ctx context.Context, key string) (string, error) {
	res, err := g.cb.Execute(func() (interface{}, error) {
		return g.next.Get(ctx, key)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
		}
		return "", err
	}
	return res.(string), nil
}

func (g *GuardedReader) Ping(ctx context.Context) error {
	return g.next.Ping(ctx)
}

// State — текущее состояние предохранителя.
func (g *GuardedReader) State() gobreaker.State {
	return g.cb.State()
}
