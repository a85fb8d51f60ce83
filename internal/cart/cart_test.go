package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sokophones/storefront/internal/localstate"
	"github.com/sokophones/storefront/internal/models"
)

func phone(id int64, name string, price int64) models.CartItem {
	return models.CartItem{
		ProductID: id,
		Name:      name,
		UnitPrice: decimal.NewFromInt(price),
		Image:     "https://img.example/" + name,
	}
}

func TestAddMergesSameProduct(t *testing.T) {
	s, err := New(nil)
	require.NoError(t, err)

	require.NoError(t, s.Add(phone(1, "iPhone 17 Pro Max", 129900), 1))
	require.NoError(t, s.Add(phone(1, "iPhone 17 Pro Max", 129900), 2))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestAddDefaultsQuantityToOne(t *testing.T) {
	s, err := New(nil)
	require.NoError(t, err)

	require.NoError(t, s.Add(phone(1, "iPhone 17 Air", 99999), 0))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestAddPreservesInsertionOrder(t *testing.T) {
	s, err := New(nil)
	require.NoError(t, err)

	require.NoError(t, s.Add(phone(2, "Galaxy S24 Ultra", 119900), 1))
	require.NoError(t, s.Add(phone(1, "iPhone 17 Pro Max", 129900), 1))
	require.NoError(t, s.Add(phone(2, "Galaxy S24 Ultra", 119900), 1))

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, int64(2), items[0].ProductID)
	assert.Equal(t, int64(1), items[1].ProductID)
}

func TestUpdateQuantityZeroRemoves(t *testing.T) {
	s, err := New(nil)
	require.NoError(t, err)

	require.NoError(t, s.Add(phone(1, "iPhone 17 Pro Max", 129900), 2))
	require.NoError(t, s.Add(phone(2, "Galaxy S24 Ultra", 119900), 1))

	require.NoError(t, s.UpdateQuantity(1, 0))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].ProductID)
	assert.True(t, s.Total().Equal(decimal.NewFromInt(119900)), "total must exclude removed lines, got %s", s.Total())
}

func TestRemoveAbsentIsNoOp(t *testing.T) {
	s, err := New(nil)
	require.NoError(t, err)

	require.NoError(t, s.Add(phone(1, "iPhone 17 Pro Max", 129900), 1))
	require.NoError(t, s.Remove(99))

	assert.Equal(t, 1, s.Len())
}

func TestTotalIsDerived(t *testing.T) {
	s, err := New(nil)
	require.NoError(t, err)

	assert.True(t, s.Total().IsZero())

	require.NoError(t, s.Add(phone(1, "Phone A", 6000), 1))
	require.NoError(t, s.Add(phone(2, "Phone B", 2000), 2))
	assert.True(t, s.Total().Equal(decimal.NewFromInt(10000)), "got %s", s.Total())

	require.NoError(t, s.UpdateQuantity(2, 1))
	assert.True(t, s.Total().Equal(decimal.NewFromInt(8000)), "got %s", s.Total())

	require.NoError(t, s.Clear())
	assert.True(t, s.Total().IsZero())
}

func TestCartSurvivesReload(t *testing.T) {
	state, err := localstate.New(t.TempDir())
	require.NoError(t, err)

	s, err := New(state)
	require.NoError(t, err)
	require.NoError(t, s.Add(phone(1, "iPhone 17 Pro Max", 129900), 2))
	require.NoError(t, s.Add(phone(2, "Galaxy S24 Ultra", 119900), 1))

	reloaded, err := New(state)
	require.NoError(t, err)

	items := reloaded.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].Quantity)
	assert.True(t, reloaded.Total().Equal(s.Total()))
}

func TestClearPersists(t *testing.T) {
	state, err := localstate.New(t.TempDir())
	require.NoError(t, err)

	s, err := New(state)
	require.NoError(t, err)
	require.NoError(t, s.Add(phone(1, "iPhone 17 Pro Max", 129900), 1))
	require.NoError(t, s.Clear())

	reloaded, err := New(state)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.Len())
}
