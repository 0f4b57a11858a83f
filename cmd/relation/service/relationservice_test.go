package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidtube.com/pkg/errno"
	"vidtube.com/pkg/store"
	"vidtube.com/pkg/store/memstore"
)

func TestToggleSubscription(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	alice, bob := store.NewKey(), store.NewKey()
	for _, k := range []string{alice, bob} {
		require.NoError(t, s.Insert(ctx, store.Users, store.Doc{store.FieldID: k, "username": k, "email": k}))
	}
	svc := NewSubscriptionService(ctx, s)
	count := func() int64 {
		n, err := s.Count(ctx, store.Subscriptions, store.Where(store.Eq("channel", bob)))
		require.NoError(t, err)
		return n
	}

	on, err := svc.ToggleSubscription(alice, bob)
	require.NoError(t, err)
	assert.True(t, on)
	assert.EqualValues(t, 1, count())

	on, err = svc.ToggleSubscription(alice, bob)
	require.NoError(t, err)
	assert.False(t, on)
	assert.EqualValues(t, 0, count())

	_, err = svc.ToggleSubscription(alice, alice)
	assert.ErrorIs(t, err, errno.ParamErr)
	_, err = svc.ToggleSubscription(alice, "nope")
	assert.ErrorIs(t, err, errno.ParamErr)
	_, err = svc.ToggleSubscription(alice, store.NewKey())
	assert.ErrorIs(t, err, errno.NotFoundErr)
}
