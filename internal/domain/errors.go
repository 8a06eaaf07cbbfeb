package domain

import (
	"context"
	"errors"
)

var (
	// ErrKeyNotFound — ключа нет в хранилище. Это не ошибка, а состояние «нет данных».
	ErrKeyNotFound = errors.New("key not found")

	// ErrStoreUnavailable — хранилище недоступно целиком (сеть, пул, открытый предохранитель).
	ErrStoreUnavailable = errors.New("store unavailable")
)

// IsCanceled сообщает, что чтение прервал контекст запроса, а не хранилище.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
