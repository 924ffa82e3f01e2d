package mystore

import (
	"context"
)

type Filter struct {
	Field   string
	Compare string
	Value   any
}

type Store[T any] interface {
	RunInTransaction(c context.Context, f func(c context.Context) error) error
	Put(c context.Context, uid string, value T) error
	Get(c context.Context, uid string) (T, bool, error)
	List(c context.Context) ([]T, error)
	Query(c context.Context, filters []Filter, orderByField string) ([]T, error)
}

func New[T any](c context.Context) (Store[T], func(), error) {
	return NewInMemoryStore[T](c)
}
