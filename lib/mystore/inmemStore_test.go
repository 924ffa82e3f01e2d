package mystore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payment struct {
	UID            string
	IdempotencyKey string
	Amount         int64
}

var (
	first  = payment{UID: "pay_1", IdempotencyKey: "idem_a", Amount: 2000}
	second = payment{UID: "pay_2", IdempotencyKey: "idem_b", Amount: 1000}
)

func TestStore(t *testing.T) {
	c := context.TODO()
	ps, cleanup, err := NewInMemoryStore[payment](c)
	require.NoError(t, err)
	defer cleanup()

	t.Run("Get not found", func(t *testing.T) {
		_, found, err := ps.Get(c, first.UID)
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Put", func(t *testing.T) {
		assert.NoError(t, ps.Put(c, first.UID, first))
		assert.NoError(t, ps.Put(c, second.UID, second))
	})

	t.Run("Get found", func(t *testing.T) {
		p, found, err := ps.Get(c, first.UID)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, first, p)
	})

	t.Run("List", func(t *testing.T) {
		all, err := ps.List(c)
		assert.NoError(t, err)
		assert.ElementsMatch(t, []payment{first, second}, all)
	})

	t.Run("Query with filter", func(t *testing.T) {
		got, err := ps.Query(c, []Filter{{Field: "IdempotencyKey", Compare: "=", Value: "idem_b"}}, "")
		assert.NoError(t, err)
		assert.Equal(t, []payment{second}, got)
	})

	t.Run("Query ordered", func(t *testing.T) {
		got, err := ps.Query(c, nil, "Amount")
		assert.NoError(t, err)
		assert.Equal(t, []payment{second, first}, got)
	})

	t.Run("Query with unknown field", func(t *testing.T) {
		_, err := ps.Query(c, []Filter{{Field: "Nope", Value: 1}}, "")
		assert.Error(t, err)
	})

	t.Run("Query with unsupported operator", func(t *testing.T) {
		_, err := ps.Query(c, []Filter{{Field: "Amount", Compare: ">", Value: int64(1)}}, "")
		assert.Error(t, err)
	})
}

func TestTransaction(t *testing.T) {
	c := context.TODO()
	ps, _, _ := NewInMemoryStore[payment](c)
	other, _, _ := NewInMemoryStore[payment](c)

	err := ps.RunInTransaction(c, func(c context.Context) error {
		// Reentrant for the same store, independent for another one.
		if err := ps.Put(c, first.UID, first); err != nil {
			return err
		}
		return other.Put(c, second.UID, second)
	})
	require.NoError(t, err)

	_, found, _ := ps.Get(c, first.UID)
	assert.True(t, found)
	_, found, _ = other.Get(c, second.UID)
	assert.True(t, found)
}
