package highlight

import (
	"context"

	pool "github.com/jolestar/go-commons-pool/v2"
)

type tPool[T any] struct {
	op *pool.ObjectPool
}

func newTPool[T any](maxTotal int, fun func() (T, error)) *tPool[T] {
	factory := pool.NewPooledObjectFactorySimple(
		func(context.Context) (interface{}, error) {
			return fun()
		})
	ctx := context.Background()
	p := pool.NewObjectPool(ctx, factory, &pool.ObjectPoolConfig{
		MaxIdle:            -1,
		MaxTotal:           maxTotal,
		BlockWhenExhausted: true,
	})

	return &tPool[T]{
		op: p,
	}
}

func (p *tPool[T]) Get(ctx context.Context) (t T, err error) {
	o, err := p.op.BorrowObject(ctx)
	if err != nil {
		return
	}

	return o.(T), nil
}

func (p *tPool[T]) Put(ctx context.Context, t T) error {
	return p.op.ReturnObject(ctx, t)
}

// Drop discards a runtime that may be left in a bad state.
func (p *tPool[T]) Drop(ctx context.Context, t T) error {
	return p.op.InvalidateObject(ctx, t)
}

func (p *tPool[T]) Close(ctx context.Context) {
	p.op.Close(ctx)
}
