package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	collar  = Product{ID: 1, Name: "Collar artesanal", UnitPrice: 10000, ImageRef: "collar.jpg"}
	pulsera = Product{ID: 2, Name: "Pulsera", UnitPrice: 5000}
)

func apply(t *testing.T, s Snapshot, cmd Command) Snapshot {
	t.Helper()
	next, err := s.Apply(cmd)
	require.NoError(t, err)
	return next
}

func TestApply_AddItemMergesLines(t *testing.T) {
	var s Snapshot
	s = apply(t, s, AddItem{Product: collar, Quantity: 2})
	s = apply(t, s, AddItem{Product: pulsera, Quantity: 1})
	s = apply(t, s, AddItem{Product: collar, Quantity: 3})

	require.Len(t, s.Lines, 2)
	assert.Equal(t, 5, s.Lines[0].Quantity)
	assert.Equal(t, int64(55000), s.Total())
	assert.Equal(t, 6, s.Count())
}

func TestApply_AddItemDefaultsQuantityToOne(t *testing.T) {
	var s Snapshot
	s = apply(t, s, AddItem{Product: collar})
	require.Len(t, s.Lines, 1)
	assert.Equal(t, 1, s.Lines[0].Quantity)

	s = apply(t, s, AddItem{Product: collar, Quantity: -5})
	assert.Equal(t, 2, s.Lines[0].Quantity)
}

func TestApply_SetQuantity(t *testing.T) {
	var s Snapshot
	s = apply(t, s, AddItem{Product: collar, Quantity: 2})

	s = apply(t, s, SetQuantity{ProductID: collar.ID, Quantity: 7})
	assert.Equal(t, 7, s.Lines[0].Quantity)
	assert.Equal(t, int64(70000), s.Total())

	s = apply(t, s, SetQuantity{ProductID: collar.ID, Quantity: 0})
	assert.True(t, s.Empty())
}

func TestApply_RemoveItem(t *testing.T) {
	var s Snapshot
	s = apply(t, s, AddItem{Product: collar})
	s = apply(t, s, AddItem{Product: pulsera})

	s = apply(t, s, RemoveItem{ProductID: collar.ID})
	require.Len(t, s.Lines, 1)
	assert.Equal(t, pulsera.ID, s.Lines[0].ProductID)

	// Removing an absent line is a no-op.
	s = apply(t, s, RemoveItem{ProductID: 99})
	assert.Len(t, s.Lines, 1)
}

func TestApply_ClearKeepsWishlist(t *testing.T) {
	var s Snapshot
	s = apply(t, s, AddItem{Product: collar})
	s = apply(t, s, AddWishlist{Product: pulsera})

	s = apply(t, s, Clear{})
	assert.True(t, s.Empty())
	assert.True(t, s.InWishlist(pulsera.ID))
}

func TestApply_WishlistDuplicateIsNoOp(t *testing.T) {
	var s Snapshot
	s = apply(t, s, AddWishlist{Product: collar})
	s = apply(t, s, AddWishlist{Product: collar})
	assert.Len(t, s.Wishlist, 1)

	s = apply(t, s, RemoveWishlist{ProductID: collar.ID})
	assert.False(t, s.InWishlist(collar.ID))
}

func TestApply_DoesNotMutateReceiver(t *testing.T) {
	var s Snapshot
	s = apply(t, s, AddItem{Product: collar, Quantity: 1})

	_, err := s.Apply(SetQuantity{ProductID: collar.ID, Quantity: 9})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Lines[0].Quantity)
}

func TestApply_UnknownCommand(t *testing.T) {
	var s Snapshot
	_, err := s.Apply(nil)
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestTotalMatchesLineSums(t *testing.T) {
	var s Snapshot
	commands := []Command{
		AddItem{Product: collar, Quantity: 2},
		AddItem{Product: pulsera, Quantity: 3},
		SetQuantity{ProductID: pulsera.ID, Quantity: 1},
		RemoveItem{ProductID: collar.ID},
		AddItem{Product: collar, Quantity: 1},
	}
	for _, cmd := range commands {
		s = apply(t, s, cmd)
		var want int64
		for _, line := range s.Lines {
			want += line.UnitPrice * int64(line.Quantity)
		}
		assert.Equal(t, want, s.Total())
	}
}
