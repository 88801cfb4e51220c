package services

import (
	"context"

	"billdash/internal/core"
)

// GetUser looks a user up by exact, case-sensitive email.
func (m *ReadModel) GetUser(ctx context.Context, email string) (core.User, error) {
	var out core.User
	err := m.run(ctx, OpGetUser, nil, func(ctx context.Context) error {
		if email == "" {
			return invalid(OpGetUser, "email is required")
		}
		u, err := m.store.UserByEmail(ctx, email)
		if err != nil {
			return err
		}
		out = u
		return nil
	})
	if err != nil {
		return core.User{}, err
	}
	return out, nil
}
