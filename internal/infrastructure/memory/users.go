package memory

import (
	"context"
	"sort"

	"github.com/oksasatya/go-ecommerce-api/internal/domain/entity"
	"github.com/oksasatya/go-ecommerce-api/internal/domain/repository"
)

type UserRepository struct{ conn }

func (r *UserRepository) uniqueCheck(d *state, u *entity.User) error {
	for _, other := range d.users {
		if other.ID == u.ID {
			continue
		}
		if other.Email == u.Email {
			return duplicate("users_email_key")
		}
		if other.Phone == u.Phone {
			return duplicate("users_phone_key")
		}
	}
	return nil
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	return r.write(func(d *state) error {
		if u.Role == "" {
			u.Role = entity.RoleCustomer
		}
		if err := r.uniqueCheck(d, u); err != nil {
			return err
		}
		u.ID = newID()
		u.CreatedAt = r.s.now()
		u.UpdatedAt = u.CreatedAt
		d.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepository) find(match func(entity.User) bool) (*entity.User, error) {
	var out *entity.User
	err := r.read(func(d *state) error {
		for _, u := range d.users {
			if match(u) {
				u := u
				out = &u
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.ID == id })
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Email == email })
}

func (r *UserRepository) GetByPhone(_ context.Context, phone string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Phone == phone })
}

func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	return r.write(func(d *state) error {
		old, ok := d.users[u.ID]
		if !ok {
			return repository.ErrNotFound
		}
		if err := r.uniqueCheck(d, u); err != nil {
			return err
		}
		u.CreatedAt = old.CreatedAt
		u.UpdatedAt = r.s.now()
		d.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepository) Upsert(_ context.Context, u *entity.User) error {
	return r.write(func(d *state) error {
		if u.Role == "" {
			u.Role = entity.RoleCustomer
		}
		for id, existing := range d.users {
			if existing.Email != u.Email {
				continue
			}
			existing.Name = u.Name
			existing.Role = u.Role
			existing.Password = u.Password
			existing.UpdatedAt = r.s.now()
			d.users[id] = existing
			*u = existing
			return nil
		}
		if err := r.uniqueCheck(d, u); err != nil {
			return err
		}
		u.ID = newID()
		u.CreatedAt = r.s.now()
		u.UpdatedAt = u.CreatedAt
		d.users[u.ID] = *u
		return nil
	})
}

type AddressRepository struct{ conn }

func (r *AddressRepository) ListByUser(_ context.Context, userID string) ([]entity.Address, error) {
	out := []entity.Address{}
	err := r.read(func(d *state) error {
		for _, a := range d.addresses {
			if a.UserID == userID {
				out = append(out, a)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsDefault != out[j].IsDefault {
			return out[i].IsDefault
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

func (r *AddressRepository) Get(_ context.Context, userID, id string) (*entity.Address, error) {
	var out *entity.Address
	err := r.read(func(d *state) error {
		a, ok := d.addresses[id]
		if !ok || a.UserID != userID {
			return repository.ErrNotFound
		}
		out = &a
		return nil
	})
	return out, err
}

func (r *AddressRepository) Create(_ context.Context, a *entity.Address) error {
	return r.write(func(d *state) error {
		if _, ok := d.users[a.UserID]; !ok {
			return repository.ErrConflict
		}
		if a.IsDefault {
			for _, other := range d.addresses {
				if other.UserID == a.UserID && other.IsDefault {
					return duplicate("uq_addresses_one_default")
				}
			}
		}
		a.ID = newID()
		a.CreatedAt = r.s.now()
		d.addresses[a.ID] = *a
		return nil
	})
}

func (r *AddressRepository) Update(_ context.Context, a *entity.Address) error {
	return r.write(func(d *state) error {
		old, ok := d.addresses[a.ID]
		if !ok || old.UserID != a.UserID {
			return repository.ErrNotFound
		}
		old.Label, old.Street, old.City, old.State, old.Landmark = a.Label, a.Street, a.City, a.State, a.Landmark
		d.addresses[a.ID] = old
		*a = old
		return nil
	})
}

func (r *AddressRepository) Delete(_ context.Context, userID, id string) error {
	return r.write(func(d *state) error {
		a, ok := d.addresses[id]
		if !ok || a.UserID != userID {
			return repository.ErrNotFound
		}
		delete(d.addresses, id)
		return nil
	})
}

func (r *AddressRepository) SetDefault(_ context.Context, userID, id string) error {
	return r.write(func(d *state) error {
		target, ok := d.addresses[id]
		if !ok || target.UserID != userID {
			return repository.ErrNotFound
		}
		for aid, a := range d.addresses {
			if a.UserID == userID && a.IsDefault && aid != id {
				a.IsDefault = false
				d.addresses[aid] = a
			}
		}
		target.IsDefault = true
		d.addresses[id] = target
		return nil
	})
}
