package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ecommerce-api/internal/application"
)

func TestWishlist(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "a@x.ng", "+2348031234567")
	cat := f.category(t, "bags")
	tote := f.product(t, cat, "Tote Bag", 9000, 2)
	clutch := f.product(t, cat, "Clutch", 7000, 2)
	ctx := context.Background()

	first, created, err := f.wishlist.Add(ctx, u.ID, tote.ID)
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := f.wishlist.Add(ctx, u.ID, tote.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.Item.ID, again.Item.ID)

	_, _, err = f.wishlist.Add(ctx, u.ID, clutch.ID)
	require.NoError(t, err)

	entries, err := f.wishlist.List(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Clutch", entries[0].Product.Name)

	require.NoError(t, f.wishlist.Remove(ctx, u.ID, first.Item.ID))
	assert.ErrorIs(t, f.wishlist.Remove(ctx, u.ID, first.Item.ID), application.ErrItemNotFound)

	_, _, err = f.wishlist.Add(ctx, u.ID, "5c7a0c56-0000-4000-8000-000000000000")
	assert.ErrorIs(t, err, application.ErrProductNotFound)
}
