package cart

import (
	"encoding/json"
	"errors"
	"math/rand"
	"testing"

	"electro_store/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var catalog = []model.Product{
	{ID: 1, Name: "Phone", CurrentPrice: 499.99, InStock: true},
	{ID: 2, Name: "Cable", CurrentPrice: 0.1, InStock: true},
	{ID: 3, Name: "Laptop", CurrentPrice: 1299.5, InStock: true},
	{ID: 4, Name: "Charger", CurrentPrice: 19.95, InStock: true},
}

func assertDerived(t *testing.T, st State) {
	t.Helper()
	total := decimal.Zero
	count := 0
	for _, item := range st.Items {
		require.GreaterOrEqual(t, item.Quantity, 1)
		total = total.Add(decimal.NewFromFloat(item.CurrentPrice).Mul(decimal.NewFromInt(int64(item.Quantity))))
		count += item.Quantity
	}
	assert.Equal(t, total.Round(2).InexactFloat64(), st.Total)
	assert.Equal(t, count, st.ItemCount)
}

func TestAddToCart(t *testing.T) {
	s := New(NewMemoryStorage())
	s.AddToCart(catalog[0])
	s.AddToCart(catalog[0])
	s.AddToCart(catalog[1])

	st := s.State()
	require.Len(t, st.Items, 2)
	assert.Equal(t, 2, st.Items[0].Quantity)
	assert.Equal(t, 1, st.Items[1].Quantity)
	assert.Equal(t, 3, st.ItemCount)
	assert.Equal(t, 1000.08, st.Total)
}

func TestRandomSequencesKeepTotals(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := New(NewMemoryStorage())
	for i := 0; i < 2000; i++ {
		p := catalog[rng.Intn(len(catalog))]
		switch rng.Intn(4) {
		case 0, 1:
			s.AddToCart(p)
		case 2:
			s.RemoveFromCart(p.ID)
		case 3:
			s.UpdateQuantity(p.ID, rng.Intn(7)-2)
		}
		assertDerived(t, s.State())
	}
}

func TestUpdateQuantityNonPositiveRemoves(t *testing.T) {
	for _, q := range []int{0, -1, -50} {
		storage := NewMemoryStorage()
		s := New(storage)
		s.AddToCart(catalog[0])
		s.AddToCart(catalog[1])

		s.UpdateQuantity(catalog[0].ID, q)

		st := s.State()
		require.Len(t, st.Items, 1)
		assert.Equal(t, catalog[1].ID, st.Items[0].ID)

		restored := New(storage).State()
		require.Len(t, restored.Items, 1)
		assert.Equal(t, catalog[1].ID, restored.Items[0].ID)
	}
}

func TestUpdateQuantitySets(t *testing.T) {
	s := New(NewMemoryStorage())
	s.AddToCart(catalog[3])
	s.UpdateQuantity(catalog[3].ID, 4)
	s.UpdateQuantity(99, 3)

	st := s.State()
	require.Len(t, st.Items, 1)
	assert.Equal(t, 4, st.Items[0].Quantity)
	assert.Equal(t, 79.8, st.Total)
}

func TestClearCart(t *testing.T) {
	storage := NewMemoryStorage()
	s := New(storage)
	s.AddToCart(catalog[2])
	s.ClearCart()

	assert.Equal(t, State{Items: []model.CartItem{}}, s.State())
	assert.Empty(t, New(storage).Items())
}

func TestSubtractKeepsLaterAdditions(t *testing.T) {
	s := New(NewMemoryStorage())
	s.AddToCart(catalog[0])
	s.AddToCart(catalog[1])
	submitted := s.Items()

	s.AddToCart(catalog[0])
	s.AddToCart(catalog[2])
	s.Subtract(submitted)

	st := s.State()
	require.Len(t, st.Items, 2)
	assert.Equal(t, int64(1), st.Items[0].ID)
	assert.Equal(t, 1, st.Items[0].Quantity)
	assert.Equal(t, int64(3), st.Items[1].ID)
	assertDerived(t, st)

	s.Subtract([]model.CartItem{{Product: catalog[3], Quantity: 1}})
	assert.Len(t, s.Items(), 2)
}

func TestRestore(t *testing.T) {
	storage := NewMemoryStorage()
	s := New(storage)
	s.AddToCart(catalog[0])
	s.AddToCart(catalog[2])
	s.UpdateQuantity(catalog[2].ID, 2)

	restored := New(storage)
	assert.Equal(t, s.State(), restored.State())
}

func TestRestoreRecomputesTotals(t *testing.T) {
	storage := NewMemoryStorage()
	items := []model.CartItem{{Product: catalog[0], Quantity: 2}, {Product: catalog[1], Quantity: 0}}
	data, err := json.Marshal(map[string]interface{}{"items": items, "total": 1, "itemCount": 77})
	require.NoError(t, err)
	require.NoError(t, storage.Save(StorageKey, data))

	st := New(storage).State()
	require.Len(t, st.Items, 1)
	assert.Equal(t, 2, st.ItemCount)
	assert.Equal(t, 999.98, st.Total)
}

func TestRestoreDiscardsMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":        `{oops`,
		"array":           `[1,2,3]`,
		"items not array": `{"items":{},"total":0,"itemCount":0}`,
		"total string":    `{"items":[],"total":"10","itemCount":0}`,
		"missing count":   `{"items":[],"total":0}`,
		"null items":      `{"items":null,"total":0,"itemCount":0}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			storage := NewMemoryStorage()
			require.NoError(t, storage.Save(StorageKey, []byte(raw)))
			st := New(storage).State()
			assert.Empty(t, st.Items)
			assert.Zero(t, st.Total)
			assert.Zero(t, st.ItemCount)
		})
	}
}

type failingStorage struct{ saves int }

func (f *failingStorage) Load(string) ([]byte, error) { return nil, errors.New("unavailable") }
func (f *failingStorage) Save(string, []byte) error {
	f.saves++
	return errors.New("disk full")
}

func TestPersistFailureKeepsState(t *testing.T) {
	storage := &failingStorage{}
	s := New(storage)
	s.AddToCart(catalog[0])

	assert.Equal(t, 1, storage.saves)
	assert.Equal(t, 1, s.State().ItemCount)
}

func TestFileStorage(t *testing.T) {
	fs, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	data, err := fs.Load(StorageKey)
	require.NoError(t, err)
	assert.Nil(t, data)

	s := New(fs)
	s.AddToCart(catalog[1])
	s.AddToCart(catalog[1])

	restored := New(fs).State()
	assert.Equal(t, 2, restored.ItemCount)
	assert.Equal(t, 0.2, restored.Total)
}

func TestStateIsACopy(t *testing.T) {
	s := New(NewMemoryStorage())
	s.AddToCart(catalog[0])

	st := s.State()
	st.Items[0].Quantity = 50
	assert.Equal(t, 1, s.State().Items[0].Quantity)
}
