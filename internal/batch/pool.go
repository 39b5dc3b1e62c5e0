package batch

import (
	"errors"

	"github.com/panjf2000/ants/v2"

	apperrors "github.com/geohash-service/internal/pkg/errors"
)

// MaxPoolSize - верхняя граница числа воркеров одного пула
const MaxPoolSize = 4096

// Pool - пул фиксированного размера, который можно разделять между пакетными вызовами.
// Размер не меняется; вызов с другим числом потоков отклоняется.
type Pool struct {
	pool *ants.Pool
}

// NewPool создает пул из size воркеров. Закрывает пул вызывающий (Close).
func NewPool(size int) (*Pool, error) {
	if err := checkThreads(size); err != nil {
		return nil, err
	}

	p, err := ants.NewPool(size, ants.WithPreAlloc(true))
	if err != nil {
		return nil, apperrors.ErrThreadPoolCreationFailed.
			WithDetails(map[string]interface{}{"threads": size}).
			Wrap(err)
	}

	return &Pool{pool: p}, nil
}

// Size возвращает число воркеров
func (p *Pool) Size() int {
	return p.pool.Cap()
}

// Close останавливает пул; повторный вызов ничего не делает
func (p *Pool) Close() {
	p.pool.Release()
}

// IsClosed сообщает, закрыт ли пул
func (p *Pool) IsClosed() bool {
	return p.pool.IsClosed()
}

// run выполняет fn для каждой части и ждет завершения всех отправленных частей
func (p *Pool) run(parts int, fn func(part int)) error {
	done := make(chan struct{}, parts)
	submitted := 0

	var submitErr error
	for part := 0; part < parts; part++ {
		err := p.pool.Submit(func() {
			defer func() { done <- struct{}{} }()
			fn(part)
		})
		if err != nil {
			submitErr = poolError(err)
			break
		}
		submitted++
	}

	for i := 0; i < submitted; i++ {
		<-done
	}
	return submitErr
}

func poolError(err error) error {
	if errors.Is(err, ants.ErrPoolClosed) {
		return apperrors.ErrPoolClosed.Wrap(err)
	}
	return apperrors.ErrThreadPoolCreationFailed.Wrap(err)
}

func checkThreads(n int) error {
	if n <= 0 {
		return apperrors.ErrInvalidThreadCount.WithDetails(map[string]interface{}{
			"threads": n,
		})
	}
	if n > MaxPoolSize {
		return apperrors.ErrThreadPoolCreationFailed.WithDetails(map[string]interface{}{
			"threads": n,
			"max":     MaxPoolSize,
		})
	}
	return nil
}
