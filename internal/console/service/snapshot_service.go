package service

import (
	"context"
	"errors"

	"github.com/xela07ax/bestcdn-board/internal/domain"
	"github.com/xela07ax/bestcdn-board/internal/infra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// KVReader описывает требования к хранилищу результатов теста скорости
type KVReader interface {
	Get(ctx context.Context, key string) (string, error)
	Ping(ctx context.Context) error
}

type SnapshotService struct {
	store   KVReader
	metrics *infra.Metrics
	logger  *zap.Logger
}

func NewSnapshotService(store KVReader, metrics *infra.Metrics, logger *zap.Logger) *SnapshotService {
	if metrics == nil {
		metrics = infra.NewMetrics(nil)
	}
	return &SnapshotService{
		store:   store,
		metrics: metrics,
		logger:  logger.Named("snapshot-service"),
	}
}

// Load читает четыре ключа параллельно и ждёт все.
// Отсутствие ключа и сбой отдельного ключа дают "" (протокол выключен / время неизвестно).
// Ошибку возвращает только недоступность хранилища целиком.
func (s *SnapshotService) Load(ctx context.Context) (domain.Snapshot, error) {
	var snap domain.Snapshot

	targets := []struct {
		key string
		dst *string
	}{
		{infra.StoreKeyIPv4, &snap.IPv4},
		{infra.StoreKeyIPv6, &snap.IPv6},
		{infra.StoreKeyIPv4Time, &snap.IPv4Time},
		{infra.StoreKeyIPv6Time, &snap.IPv6Time},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, t := range targets {
		t := t
		g.Go(func() error {
			val, err := s.read(gctx, t.key)
			if err != nil {
				return err
			}
			*t.dst = val // у каждой горутины своё поле
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return domain.Snapshot{}, err
	}
	return snap, nil
}

func (s *SnapshotService) read(ctx context.Context, key string) (string, error) {
	val, err := s.store.Get(ctx, key)
	switch {
	case err == nil:
		s.metrics.StoreReads.WithLabelValues(key, "hit").Inc()
		return val, nil

	case errors.Is(err, domain.ErrKeyNotFound):
		s.metrics.StoreReads.WithLabelValues(key, "miss").Inc()
		s.logger.Debug("store key is absent", zap.String("key", key))
		return "", nil

	case domain.IsCanceled(err):
		s.metrics.StoreReads.WithLabelValues(key, "canceled").Inc()
		s.logger.Debug("store read canceled", zap.String("key", key), zap.Error(err))
		return "", err

	case errors.Is(err, domain.ErrStoreUnavailable):
		s.metrics.StoreReads.WithLabelValues(key, "unavailable").Inc()
		s.logger.Error("store unreachable", zap.String("key", key), zap.Error(err))
		return "", err

	default:
		s.metrics.StoreReads.WithLabelValues(key, "error").Inc()
		s.logger.Warn("store read failed, treating key as absent", zap.String("key", key), zap.Error(err))
		return "", nil
	}
}

// Ping проверяет доступность хранилища (используется при старте).
func (s *SnapshotService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
