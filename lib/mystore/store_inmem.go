package mystore

import (
	"cmp"
	"context"
	"fmt"
	"reflect"
	"slices"
	"sync"
)

// ctxTransactionKey marks a context as running inside RunInTransaction of
// one particular store, so other stores keep locking normally.
type ctxTransactionKey struct {
	store any
}

type InMemoryStore[T any] struct {
	sync.Mutex
	Items map[string]T
}

func NewInMemoryStore[T any](c context.Context) (*InMemoryStore[T], func(), error) {
	return &InMemoryStore[T]{
		Items: make(map[string]T),
	}, func() {}, nil
}

func (s *InMemoryStore[T]) RunInTransaction(c context.Context, f func(c context.Context) error) error {
	s.Lock()
	defer s.Unlock()

	// There is no rollback: f must not write before it has decided to succeed.
	return f(context.WithValue(c, ctxTransactionKey{store: s}, true))
}

func (s *InMemoryStore[T]) lock(c context.Context) func() {
	if c.Value(ctxTransactionKey{store: s}) != nil {
		return func() {}
	}
	s.Lock()
	return s.Unlock
}

func (s *InMemoryStore[T]) Put(c context.Context, uid string, value T) error {
	defer s.lock(c)()

	s.Items[uid] = value

	return nil
}

func (s *InMemoryStore[T]) Get(c context.Context, uid string) (T, bool, error) {
	defer s.lock(c)()

	result, exists := s.Items[uid]

	return result, exists, nil
}

func (s *InMemoryStore[T]) List(c context.Context) ([]T, error) {
	defer s.lock(c)()

	result := make([]T, 0, len(s.Items))
	for _, v := range s.Items {
		result = append(result, v)
	}

	return result, nil
}

// Query supports equality filters ("=" or "") on exported struct fields and
// ordering on a string or integer field.
func (s *InMemoryStore[T]) Query(c context.Context, filters []Filter, orderByField string) ([]T, error) {
	all, err := s.List(c)
	if err != nil {
		return nil, err
	}

	result := make([]T, 0, len(all))
	for _, item := range all {
		matches, err := matchesAll(item, filters)
		if err != nil {
			return nil, err
		}
		if matches {
			result = append(result, item)
		}
	}

	if orderByField != "" {
		slices.SortStableFunc(result, func(a, b T) int {
			return compareField(a, b, orderByField)
		})
	}

	return result, nil
}

func matchesAll(item any, filters []Filter) (bool, error) {
	v := reflect.Indirect(reflect.ValueOf(item))
	for _, f := range filters {
		if f.Compare != "=" && f.Compare != "" {
			return false, fmt.Errorf("unsupported compare operator %q", f.Compare)
		}
		if v.Kind() != reflect.Struct {
			return false, fmt.Errorf("cannot filter %s on field %s", v.Kind(), f.Field)
		}
		field := v.FieldByName(f.Field)
		if !field.IsValid() {
			return false, fmt.Errorf("unknown field %s", f.Field)
		}
		if !reflect.DeepEqual(field.Interface(), f.Value) {
			return false, nil
		}
	}
	return true, nil
}

func compareField(a, b any, name string) int {
	fa := reflect.Indirect(reflect.ValueOf(a)).FieldByName(name)
	fb := reflect.Indirect(reflect.ValueOf(b)).FieldByName(name)
	if !fa.IsValid() || !fb.IsValid() {
		return 0
	}
	switch {
	case fa.CanInt():
		return cmp.Compare(fa.Int(), fb.Int())
	case fa.Kind() == reflect.String:
		return cmp.Compare(fa.String(), fb.String())
	default:
		return 0
	}
}
