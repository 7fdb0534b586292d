package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ecommerce-api/internal/application"
)

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "a@x.ng", "+2348031234567")
	f.user(t, "b@x.ng", "+2348030000000")
	ctx := context.Background()

	name := "  Ada Eze "
	phone := "0803 111 2222"
	got, err := f.profile.UpdateProfile(ctx, u.ID, application.ProfileInput{Name: &name, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Ada Eze", got.Name)
	assert.Equal(t, "+2348031112222", got.Phone)

	taken := "08030000000"
	_, err = f.profile.UpdateProfile(ctx, u.ID, application.ProfileInput{Phone: &taken})
	assert.ErrorIs(t, err, application.ErrDuplicatePhone)

	same := "+2348031112222"
	_, err = f.profile.UpdateProfile(ctx, u.ID, application.ProfileInput{Phone: &same})
	require.NoError(t, err)
}

func TestAddresses_DefaultHandling(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "a@x.ng", "+2348031234567")
	ctx := context.Background()

	home, err := f.profile.CreateAddress(ctx, u.ID, application.AddressInput{Label: "Home", Street: "1 A St", City: "Ikeja", State: "Lagos"})
	require.NoError(t, err)
	assert.True(t, home.IsDefault)

	work, err := f.profile.CreateAddress(ctx, u.ID, application.AddressInput{Label: "Work", Street: "2 B St", City: "Yaba", State: "Lagos"})
	require.NoError(t, err)
	assert.False(t, work.IsDefault)

	shop, err := f.profile.CreateAddress(ctx, u.ID, application.AddressInput{Label: "Shop", Street: "3 C St", City: "Wuse", State: "FCT", IsDefault: true})
	require.NoError(t, err)
	assert.True(t, shop.IsDefault)

	addrs, err := f.profile.ListAddresses(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, addrs, 3)
	defaults := 0
	for _, a := range addrs {
		if a.IsDefault {
			defaults++
			assert.Equal(t, shop.ID, a.ID)
		}
	}
	assert.Equal(t, 1, defaults)

	// deleting the default promotes the oldest remaining address
	require.NoError(t, f.profile.DeleteAddress(ctx, u.ID, shop.ID))
	addrs, err = f.profile.ListAddresses(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, addrs, 2)
	assert.Equal(t, home.ID, addrs[0].ID)
	assert.True(t, addrs[0].IsDefault)

	got, err := f.profile.SetDefaultAddress(ctx, u.ID, work.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDefault)
}

func TestAddresses_OwnerScoped(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "a@x.ng", "+2348031234567")
	other := f.user(t, "b@x.ng", "+2348030000000")
	ctx := context.Background()

	a, err := f.profile.CreateAddress(ctx, u.ID, application.AddressInput{Street: "1 A St", City: "Ikeja", State: "Lagos"})
	require.NoError(t, err)

	_, err = f.profile.UpdateAddress(ctx, other.ID, a.ID, application.AddressInput{Street: "x", City: "y", State: "z"})
	assert.ErrorIs(t, err, application.ErrAddressNotFound)
	assert.ErrorIs(t, f.profile.DeleteAddress(ctx, other.ID, a.ID), application.ErrAddressNotFound)
	_, err = f.profile.SetDefaultAddress(ctx, other.ID, a.ID)
	assert.ErrorIs(t, err, application.ErrAddressNotFound)
}

func TestGetProfile_IncludesAddresses(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "a@x.ng", "+2348031234567")
	ctx := context.Background()
	_, err := f.profile.CreateAddress(ctx, u.ID, application.AddressInput{Street: "1 A St", City: "Ikeja", State: "Lagos"})
	require.NoError(t, err)

	p, err := f.profile.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.ng", p.User.Email)
	assert.Len(t, p.Addresses, 1)

	_, err = f.profile.UploadAvatar(ctx, u.ID, nil, "me.jpg", "image/jpeg")
	assert.ErrorIs(t, err, application.ErrStorageDisabled)
}
