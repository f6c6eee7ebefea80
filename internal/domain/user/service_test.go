package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockUserRepo struct {
	byEmail map[string]*User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{byEmail: make(map[string]*User)}
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) Create(_ context.Context, u *User) error {
	m.byEmail[u.Email] = u
	return nil
}

func TestRegister(t *testing.T) {
	svc := NewService(newMockUserRepo())

	u, err := svc.Register(context.Background(), Input{
		Email:    "Alice@Example.com",
		Password: "hunter2hunter2",
		FullName: "Alice Tran",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", u.Email, "email is lowercased")
	assert.Equal(t, RoleCustomer, u.Role)
	assert.NotEmpty(t, u.ID)
	assert.NotEqual(t, "hunter2hunter2", u.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("hunter2hunter2")))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := NewService(newMockUserRepo())

	in := Input{Email: "alice@example.com", Password: "hunter2hunter2", FullName: "Alice"}
	_, err := svc.Register(context.Background(), in)
	require.NoError(t, err)

	// Case only differs; still a duplicate.
	in.Email = "ALICE@example.com"
	_, err = svc.Register(context.Background(), in)
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_InvalidInput(t *testing.T) {
	svc := NewService(newMockUserRepo())

	tests := []struct {
		name string
		in   Input
	}{
		{name: "missing email", in: Input{Password: "hunter2hunter2", FullName: "A"}},
		{name: "malformed email", in: Input{Email: "not-an-email", Password: "hunter2hunter2", FullName: "A"}},
		{name: "short password", in: Input{Email: "a@b.com", Password: "short", FullName: "A"}},
		{name: "missing name", in: Input{Email: "a@b.com", Password: "hunter2hunter2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.in)
			require.Error(t, err)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	svc := NewService(newMockUserRepo())

	_, err := svc.Register(context.Background(), Input{
		Email:    "alice@example.com",
		Password: "hunter2hunter2",
		FullName: "Alice",
	})
	require.NoError(t, err)

	u, err := svc.Authenticate(context.Background(), "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)

	_, err = svc.Authenticate(context.Background(), "alice@example.com", "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown accounts yield the same error as a wrong password.
	_, err = svc.Authenticate(context.Background(), "nobody@example.com", "hunter2hunter2")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
