package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ecommerce-api/internal/domain/entity"
	"github.com/oksasatya/go-ecommerce-api/internal/domain/repository"
	"github.com/oksasatya/go-ecommerce-api/pkg/helpers"
	"github.com/oksasatya/go-ecommerce-api/pkg/validation"
)

// ProfileService manages the caller's own user row and address book.
type ProfileService struct {
	Store   repository.Store
	Storage ObjectStorage
	Logger  *logrus.Logger
}

type Profile struct {
	User      entity.User
	Addresses []entity.Address
}

func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	repos := s.Store.Repos()
	u, err := repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	addrs, err := repos.Addresses.ListByUser(ctx, userID)
	if err != nil {
		return nil, internal(err)
	}
	return &Profile{User: *u, Addresses: addrs}, nil
}

type ProfileInput struct {
	Name  *string
	Phone *string
}

func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*entity.User, error) {
	users := s.Store.Repos().Users
	u, err := users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		phone := validation.NormalizePhone(*in.Phone)
		if phone != u.Phone {
			other, err := users.GetByPhone(ctx, phone)
			if err == nil && other.ID != u.ID {
				return nil, ErrDuplicatePhone
			}
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return nil, internal(err)
			}
			u.Phone = phone
		}
	}
	if err := users.Update(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, duplicateUserField(err)
		}
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	return u, nil
}

// UploadAvatar stores the image under avatars/<user id>/ and saves its URL.
func (s *ProfileService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (*entity.User, error) {
	if s.Storage == nil {
		return nil, ErrStorageDisabled
	}
	users := s.Store.Repos().Users
	u, err := users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	objectPath := fmt.Sprintf("avatars/%s/%s%s", userID, uuid.NewString(), strings.ToLower(filepath.Ext(filename)))
	url, err := s.Storage.Upload(ctx, objectPath, contentType, r)
	if err != nil {
		helpers.LogError(s.Logger, "avatar upload failed", err, logrus.Fields{"user_id": userID})
		return nil, internal(err)
	}
	u.AvatarURL = url
	if err := users.Update(ctx, u); err != nil {
		return nil, internal(err)
	}
	return u, nil
}

type AddressInput struct {
	Label     string
	Street    string
	City      string
	State     string
	Landmark  string
	IsDefault bool
}

func (s *ProfileService) ListAddresses(ctx context.Context, userID string) ([]entity.Address, error) {
	addrs, err := s.Store.Repos().Addresses.ListByUser(ctx, userID)
	if err != nil {
		return nil, internal(err)
	}
	return addrs, nil
}

// CreateAddress makes the first address of a user the default.
func (s *ProfileService) CreateAddress(ctx context.Context, userID string, in AddressInput) (*entity.Address, error) {
	var out *entity.Address
	err := s.Store.WithTx(ctx, func(r repository.Repositories) error {
		existing, err := r.Addresses.ListByUser(ctx, userID)
		if err != nil {
			return internal(err)
		}
		a := &entity.Address{
			UserID:    userID,
			Label:     strings.TrimSpace(in.Label),
			Street:    strings.TrimSpace(in.Street),
			City:      strings.TrimSpace(in.City),
			State:     strings.TrimSpace(in.State),
			Landmark:  strings.TrimSpace(in.Landmark),
			IsDefault: len(existing) == 0,
		}
		if err := r.Addresses.Create(ctx, a); err != nil {
			return internal(err)
		}
		if in.IsDefault && !a.IsDefault {
			if err := r.Addresses.SetDefault(ctx, userID, a.ID); err != nil {
				return internal(err)
			}
			a.IsDefault = true
		}
		out = a
		return nil
	})
	return out, err
}

func (s *ProfileService) UpdateAddress(ctx context.Context, userID, id string, in AddressInput) (*entity.Address, error) {
	if !validID(id) {
		return nil, ErrAddressNotFound
	}
	var out *entity.Address
	err := s.Store.WithTx(ctx, func(r repository.Repositories) error {
		a, err := r.Addresses.Get(ctx, userID, id)
		if err != nil {
			return notFoundAs(err, ErrAddressNotFound)
		}
		a.Label = strings.TrimSpace(in.Label)
		a.Street = strings.TrimSpace(in.Street)
		a.City = strings.TrimSpace(in.City)
		a.State = strings.TrimSpace(in.State)
		a.Landmark = strings.TrimSpace(in.Landmark)
		if err := r.Addresses.Update(ctx, a); err != nil {
			return notFoundAs(err, ErrAddressNotFound)
		}
		if in.IsDefault && !a.IsDefault {
			if err := r.Addresses.SetDefault(ctx, userID, a.ID); err != nil {
				return internal(err)
			}
			a.IsDefault = true
		}
		out = a
		return nil
	})
	return out, err
}

// DeleteAddress promotes the oldest remaining address when the default goes.
func (s *ProfileService) DeleteAddress(ctx context.Context, userID, id string) error {
	if !validID(id) {
		return ErrAddressNotFound
	}
	return s.Store.WithTx(ctx, func(r repository.Repositories) error {
		a, err := r.Addresses.Get(ctx, userID, id)
		if err != nil {
			return notFoundAs(err, ErrAddressNotFound)
		}
		if err := r.Addresses.Delete(ctx, userID, id); err != nil {
			return notFoundAs(err, ErrAddressNotFound)
		}
		if !a.IsDefault {
			return nil
		}
		rest, err := r.Addresses.ListByUser(ctx, userID)
		if err != nil || len(rest) == 0 {
			return internal(err)
		}
		oldest := rest[0]
		for _, other := range rest[1:] {
			if other.CreatedAt.Before(oldest.CreatedAt) {
				oldest = other
			}
		}
		return internal(r.Addresses.SetDefault(ctx, userID, oldest.ID))
	})
}

func (s *ProfileService) SetDefaultAddress(ctx context.Context, userID, id string) (*entity.Address, error) {
	if !validID(id) {
		return nil, ErrAddressNotFound
	}
	var out *entity.Address
	err := s.Store.WithTx(ctx, func(r repository.Repositories) error {
		if err := r.Addresses.SetDefault(ctx, userID, id); err != nil {
			return notFoundAs(err, ErrAddressNotFound)
		}
		a, err := r.Addresses.Get(ctx, userID, id)
		if err != nil {
			return notFoundAs(err, ErrAddressNotFound)
		}
		out = a
		return nil
	})
	return out, err
}
