package address

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAddressRepo struct {
	byID map[string]*Address
}

func newMockAddressRepo() *mockAddressRepo {
	return &mockAddressRepo{byID: make(map[string]*Address)}
}

func (m *mockAddressRepo) ListByUser(_ context.Context, userID string) ([]Address, error) {
	var out []Address
	for _, a := range m.byID {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockAddressRepo) GetByID(_ context.Context, id string) (*Address, error) {
	a, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockAddressRepo) Create(_ context.Context, a *Address) error {
	cp := *a
	m.byID[a.ID] = &cp
	return nil
}

func (m *mockAddressRepo) Update(_ context.Context, a *Address) error {
	cp := *a
	m.byID[a.ID] = &cp
	return nil
}

func (m *mockAddressRepo) Delete(_ context.Context, id string) error {
	delete(m.byID, id)
	return nil
}

func (m *mockAddressRepo) ClearDefaults(_ context.Context, userID string) error {
	for _, a := range m.byID {
		if a.UserID == userID {
			a.IsDefault = false
		}
	}
	return nil
}

func (m *mockAddressRepo) MarkDefault(_ context.Context, id string) error {
	a, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	a.IsDefault = true
	return nil
}

func sampleInput() Input {
	return Input{
		FullName: "Nguyen Van A",
		Phone:    "0901234567",
		Street:   "12 Le Loi",
		Ward:     "Ben Nghe",
		City:     "Ho Chi Minh",
		State:    "HCM",
		Country:  "VN",
	}
}

func TestCreateAndGet(t *testing.T) {
	svc := NewService(newMockAddressRepo())

	a, err := svc.Create(context.Background(), "u1", sampleInput())
	require.NoError(t, err)
	require.NotEmpty(t, a.ID)

	got, err := svc.Get(context.Background(), "u1", a.ID)
	require.NoError(t, err)
	assert.Equal(t, "12 Le Loi", got.Street)

	// Another user cannot read it.
	_, err = svc.Get(context.Background(), "u2", a.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreate_RejectsIncompleteInput(t *testing.T) {
	svc := NewService(newMockAddressRepo())

	in := sampleInput()
	in.Phone = ""
	_, err := svc.Create(context.Background(), "u1", in)
	require.Error(t, err)
}

func TestSetDefault_ClearsOthers(t *testing.T) {
	repo := newMockAddressRepo()
	svc := NewService(repo)

	first, err := svc.Create(context.Background(), "u1", sampleInput())
	require.NoError(t, err)
	in := sampleInput()
	in.Street = "34 Nguyen Hue"
	second, err := svc.Create(context.Background(), "u1", in)
	require.NoError(t, err)

	require.NoError(t, svc.SetDefault(context.Background(), "u1", first.ID))
	require.NoError(t, svc.SetDefault(context.Background(), "u1", second.ID))

	all, err := svc.List(context.Background(), "u1")
	require.NoError(t, err)
	defaults := 0
	for _, a := range all {
		if a.IsDefault {
			defaults++
			assert.Equal(t, second.ID, a.ID)
		}
	}
	assert.Equal(t, 1, defaults)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		stored    Input
		submitted Input
		wantHit   bool
	}{
		{
			name:      "exact normalized match",
			stored:    sampleInput(),
			submitted: func() Input { in := sampleInput(); in.Street = "  12 LE LOI "; return in }(),
			wantHit:   true,
		},
		{
			name:   "substring match with fuller street",
			stored: sampleInput(),
			submitted: func() Input {
				in := sampleInput()
				in.Street = "12 Le Loi, District 1"
				return in
			}(),
			wantHit: true,
		},
		{
			name:   "different phone misses",
			stored: sampleInput(),
			submitted: func() Input {
				in := sampleInput()
				in.Phone = "0999999999"
				return in
			}(),
			wantHit: false,
		},
		{
			name:   "different city misses",
			stored: sampleInput(),
			submitted: func() Input {
				in := sampleInput()
				in.City = "Ha Noi"
				return in
			}(),
			wantHit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(newMockAddressRepo())
			stored, err := svc.Create(context.Background(), "u1", tt.stored)
			require.NoError(t, err)

			got, err := svc.Resolve(context.Background(), "u1", tt.submitted)
			require.NoError(t, err)
			if tt.wantHit {
				require.NotNil(t, got)
				assert.Equal(t, stored.ID, got.ID)
			} else {
				assert.Nil(t, got)
			}
		})
	}
}

func TestResolve_DoesNotCrossUsers(t *testing.T) {
	svc := NewService(newMockAddressRepo())
	_, err := svc.Create(context.Background(), "u1", sampleInput())
	require.NoError(t, err)

	got, err := svc.Resolve(context.Background(), "u2", sampleInput())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFindOrCreate(t *testing.T) {
	svc := NewService(newMockAddressRepo())

	first, err := svc.FindOrCreate(context.Background(), "u1", sampleInput())
	require.NoError(t, err)

	// Same input reuses the row instead of creating a duplicate.
	second, err := svc.FindOrCreate(context.Background(), "u1", sampleInput())
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	all, err := svc.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
