// Package batch - пакетная конвертация геохэшей на ограниченном числе горутин.
//
// Результаты пишутся в заранее выделенный слайс по индексу входа, поэтому порядок
// не зависит от того, какой воркер закончил первым. Пакет либо выполняется целиком,
// либо возвращает ошибку элемента с наименьшим индексом.
package batch

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/geohash-service/internal/domain"
	"github.com/geohash-service/internal/geohash"
	apperrors "github.com/geohash-service/internal/pkg/errors"
)

const (
	defaultChunksPerThread = 4
	ctxCheckEvery          = 1024
)

type options struct {
	threads         int
	threadsSet      bool
	pool            *Pool
	chunksPerThread int
}

// Option - настройка пакетного вызова
type Option func(*options)

// WithThreads задает число горутин; значение меньше 1 приводит к ошибке
func WithThreads(n int) Option {
	return func(o *options) {
		o.threads = n
		o.threadsSet = true
	}
}

// WithPool выполняет пакет на общем пуле вместо пула на один вызов
func WithPool(p *Pool) Option {
	return func(o *options) {
		o.pool = p
	}
}

// WithChunksPerThread - на сколько частей на поток делить вход; меньше 1 считается как 1
func WithChunksPerThread(k int) Option {
	return func(o *options) {
		o.chunksPerThread = k
	}
}

func resolve(opts []Option) (options, error) {
	o := options{chunksPerThread: defaultChunksPerThread}
	for _, opt := range opts {
		opt(&o)
	}

	if o.threadsSet {
		if err := checkThreads(o.threads); err != nil {
			return o, err
		}
	}

	switch {
	case o.pool != nil:
		if o.threadsSet && o.threads != o.pool.Size() {
			return o, apperrors.ErrInvalidThreadCount.
				WithMessage("Thread count %d does not match shared pool size %d", o.threads, o.pool.Size()).
				WithDetails(map[string]interface{}{"threads": o.threads, "pool_size": o.pool.Size()})
		}
		o.threads = o.pool.Size()
	case !o.threadsSet:
		o.threads = PhysicalCores()
		if o.threads > MaxPoolSize {
			o.threads = MaxPoolSize
		}
	}

	if o.chunksPerThread < 1 {
		o.chunksPerThread = 1
	}

	return o, nil
}

// ResolveThreads возвращает число потоков, которое использует вызов с opts
func ResolveThreads(opts ...Option) (int, error) {
	o, err := resolve(opts)
	if err != nil {
		return 0, err
	}
	return o.threads, nil
}

// Map параллельно вычисляет fn(i) для i из [0, n) и возвращает результаты в порядке индексов
func Map[T any](ctx context.Context, n int, fn func(i int) (T, error), opts ...Option) ([]T, error) {
	o, err := resolve(opts)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]T, n)
	if n == 0 {
		return out, nil
	}

	parts := o.threads * o.chunksPerThread
	if parts > n {
		parts = n
	}
	chunk := (n + parts - 1) / parts
	parts = (n + chunk - 1) / chunk

	// failedAt - наименьший индекс с ошибкой; элементы после него пропускаются
	var failedAt atomic.Int64
	failedAt.Store(int64(n))
	errs := make([]error, parts)

	work := func(part int) {
		lo := part * chunk
		hi := min(lo+chunk, n)

		for i := lo; i < hi; i++ {
			if int64(i) > failedAt.Load() {
				return
			}
			if (i-lo)%ctxCheckEvery == 0 {
				if err := ctx.Err(); err != nil {
					errs[part] = err
					lowerTo(&failedAt, int64(i))
					return
				}
			}

			v, err := fn(i)
			if err != nil {
				errs[part] = elementError(i, err)
				lowerTo(&failedAt, int64(i))
				return
			}
			out[i] = v
		}
	}

	if o.pool != nil {
		if err := o.pool.run(parts, work); err != nil {
			return nil, err
		}
	} else {
		runScoped(o.threads, parts, work)
	}

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// runScoped - пул на один вызов: не больше threads горутин, все завершены до возврата
func runScoped(threads, parts int, fn func(part int)) {
	var g errgroup.Group
	g.SetLimit(threads)
	for part := 0; part < parts; part++ {
		g.Go(func() error {
			fn(part)
			return nil
		})
	}
	_ = g.Wait()
}

func lowerTo(v *atomic.Int64, i int64) {
	for {
		cur := v.Load()
		if i >= cur || v.CompareAndSwap(cur, i) {
			return
		}
	}
}

func elementError(i int, err error) error {
	if appErr, ok := apperrors.As(err); ok {
		return appErr.WithDetails(map[string]interface{}{"index": i})
	}
	return fmt.Errorf("element %d: %w", i, err)
}

// EncodeMany кодирует пары lons[i], lats[i]; длины слайсов должны совпадать
func EncodeMany(ctx context.Context, lons, lats []float64, length int, opts ...Option) ([]string, error) {
	if len(lons) != len(lats) {
		return nil, apperrors.ErrLengthMismatch.WithDetails(map[string]interface{}{
			"longitudes": len(lons),
			"latitudes":  len(lats),
		})
	}
	if err := geohash.ValidateLength(length); err != nil {
		return nil, err
	}

	return Map(ctx, len(lons), func(i int) (string, error) {
		return geohash.Encode(domain.Coordinate{X: lons[i], Y: lats[i]}, length)
	}, opts...)
}

// DecodeMany декодирует геохэши в центры ячеек (без погрешностей)
func DecodeMany(ctx context.Context, hashes []string, opts ...Option) ([]domain.Coordinate, error) {
	return Map(ctx, len(hashes), func(i int) (domain.Coordinate, error) {
		p, err := geohash.Decode(hashes[i])
		if err != nil {
			return domain.Coordinate{}, err
		}
		return p.Coordinate, nil
	}, opts...)
}
