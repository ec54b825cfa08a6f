package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"uphera/internal/domain/user"
	"uphera/internal/pkg/jwt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type mockUserRepo struct {
	byID      map[uuid.UUID]user.User
	createErr error
	existsErr error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{byID: map[uuid.UUID]user.User{}}
}

func (m *mockUserRepo) CreateUser(_ context.Context, u user.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	u.CreatedAt = time.Now()
	m.byID[u.ID] = u
	return nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id uuid.UUID) (user.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	_, err := m.GetUserByEmail(ctx, email)
	return err == nil, nil
}

func (m *mockUserRepo) GetProfile(context.Context, uuid.UUID) (user.Profile, error) {
	return user.Profile{}, nil
}

func (m *mockUserRepo) UpdateProfile(context.Context, user.Profile) error { return nil }

func newTestService(repo user.Repository) (*Service, *jwt.HMACService) {
	jwtSvc := jwt.NewHMACService("a-secret", "r-secret", time.Minute, time.Hour)
	svc := NewService(repo, jwtSvc, nil)
	svc.cost = bcrypt.MinCost
	return svc, jwtSvc
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	repo := newMockUserRepo()
	svc, jwtSvc := newTestService(repo)

	u, tokens, err := svc.Register(ctx, RegisterInput{Email: "  Ada@Example.com ", Password: "supersecret", FullName: "Ada"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Email != "ada@example.com" || u.PasswordHash != "" {
		t.Fatalf("unexpected user: %+v", u)
	}
	claims, err := jwtSvc.ValidateAccessToken(tokens.AccessToken)
	if err != nil || claims.UserID != u.ID {
		t.Fatalf("access token must identify the new user: %v", err)
	}

	if _, _, err := svc.Register(ctx, RegisterInput{Email: "ada@example.com", Password: "supersecret"}); !errors.Is(err, ErrEmailAlreadyRegistered) {
		t.Fatalf("expected ErrEmailAlreadyRegistered, got %v", err)
	}

	if _, _, err := svc.Login(ctx, LoginInput{Email: "ADA@example.com", Password: "supersecret"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, _, err := svc.Login(ctx, LoginInput{Email: "ada@example.com", Password: "wrong-password"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "supersecret"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestRegister_InvalidInput(t *testing.T) {
	svc, _ := newTestService(newMockUserRepo())
	cases := []RegisterInput{
		{Email: "", Password: "supersecret"},
		{Email: "not-an-email", Password: "supersecret"},
		{Email: "ada@example.com", Password: "short"},
	}
	for _, in := range cases {
		if _, _, err := svc.Register(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("Register(%+v) expected ErrInvalidInput, got %v", in, err)
		}
	}
}

func TestRegister_RepoFailure(t *testing.T) {
	repo := newMockUserRepo()
	repo.existsErr = errors.New("db down")
	svc, _ := newTestService(repo)
	if _, _, err := svc.Register(context.Background(), RegisterInput{Email: "ada@example.com", Password: "supersecret"}); !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	repo := newMockUserRepo()
	svc, _ := newTestService(repo)

	u, tokens, err := svc.Register(ctx, RegisterInput{Email: "ada@example.com", Password: "supersecret"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	fresh, err := svc.Refresh(ctx, tokens.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if fresh.AccessToken == "" || fresh.RefreshToken == "" {
		t.Fatalf("expected new token pair")
	}

	if _, err := svc.Refresh(ctx, tokens.AccessToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("access token must not refresh, got %v", err)
	}
	if _, err := svc.Refresh(ctx, ""); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken for blank token, got %v", err)
	}

	delete(repo.byID, u.ID)
	if _, err := svc.Refresh(ctx, tokens.RefreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken for deleted user, got %v", err)
	}
}
