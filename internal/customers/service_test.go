package customers

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	customers map[int64]*Customer
	quoted    map[int64]bool
	nextID    int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		customers: make(map[int64]*Customer),
		quoted:    make(map[int64]bool),
		nextID:    1,
	}
}

func (m *mockRepository) Get(ctx context.Context, id int64) (*Customer, error) {
	c, ok := m.customers[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *c
	return &out, nil
}

func (m *mockRepository) List(ctx context.Context, req ListCustomersRequest) ([]Customer, int, error) {
	var result []Customer
	for _, c := range m.customers {
		if req.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(req.Search)) {
			continue
		}
		result = append(result, *c)
	}
	return result, len(result), nil
}

func (m *mockRepository) Create(ctx context.Context, c Customer) (int64, error) {
	c.ID = m.nextID
	m.nextID++
	m.customers[c.ID] = &c
	return c.ID, nil
}

func (m *mockRepository) Update(ctx context.Context, c Customer) error {
	if _, ok := m.customers[c.ID]; !ok {
		return ErrNotFound
	}
	m.customers[c.ID] = &c
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.customers[id]; !ok {
		return ErrNotFound
	}
	delete(m.customers, id)
	return nil
}

func (m *mockRepository) Exists(ctx context.Context, id int64) (bool, error) {
	_, ok := m.customers[id]
	return ok, nil
}

func (m *mockRepository) HasQuotes(ctx context.Context, id int64) (bool, error) {
	return m.quoted[id], nil
}

func TestCreateCustomer(t *testing.T) {
	svc := NewService(newMockRepository())

	customer, err := svc.Create(context.Background(), CreateCustomerRequest{Name: "  Thandi Nkosi  "})
	require.NoError(t, err)
	assert.Equal(t, "Thandi Nkosi", customer.Name)

	_, err = svc.Create(context.Background(), CreateCustomerRequest{Name: "   "})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateCustomerPartial(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	email := "thandi@example.com"
	customer, err := svc.Create(context.Background(), CreateCustomerRequest{
		Name:  "Thandi Nkosi",
		Email: &email,
	})
	require.NoError(t, err)

	phone := "+27 82 000 0000"
	updated, err := svc.Update(context.Background(), customer.ID, UpdateCustomerRequest{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Thandi Nkosi", updated.Name)
	require.NotNil(t, updated.Email)
	assert.Equal(t, email, *updated.Email)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, phone, *updated.Phone)
}

func TestDeleteCustomerWithQuotesRefused(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	customer, err := svc.Create(context.Background(), CreateCustomerRequest{Name: "Thandi Nkosi"})
	require.NoError(t, err)
	repo.quoted[customer.ID] = true

	err = svc.Delete(context.Background(), customer.ID)
	assert.ErrorIs(t, err, ErrInUse)

	repo.quoted[customer.ID] = false
	require.NoError(t, svc.Delete(context.Background(), customer.ID))
	_, err = svc.Get(context.Background(), customer.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
