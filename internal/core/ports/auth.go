package ports

import (
	"context"

	"github.com/gigboard/marketplace-core/internal/core/domain"
)

// AuthRepository persists accounts. Create writes the account together with
// its empty user record so a signed-up user always has one.
type AuthRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account, user *domain.User) (*domain.Account, error)
}

// AuthService is the auth collaborator that produces the trusted user id.
type AuthService interface {
	Register(ctx context.Context, email, password, name string) (*domain.Account, error)
	Login(ctx context.Context, email, password string) (string, *domain.Account, error)
}
