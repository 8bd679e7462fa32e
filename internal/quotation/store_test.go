package quotation

import (
	"context"
	"errors"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbtypes "github.com/angelmondragon/carpenter-backend/pkg/db/types"
)

func door(id uint) ProductRef {
	return ProductRef{ID: id, Name: gofakeit.ProductName()}
}

func TestAddMergesSameDimensions(t *testing.T) {
	ctx := context.Background()
	s := NewStore(NewMemoryPersister())
	p := door(7)
	dims := SelectedDimensions{Thickness: "40", Width: "36", Height: "80"}

	s.Add(ctx, p, dims, 1)
	line := s.Add(ctx, p, dims, 2)

	require.Len(t, s.Items(), 1)
	assert.Equal(t, 3, line.Quantity)
	assert.Equal(t, "7-40-36-80", line.CartID)
	assert.Equal(t, 3, s.ItemCount())
}

func TestAddSplitsDifferentDimensions(t *testing.T) {
	ctx := context.Background()
	s := NewStore(nil)
	p := door(7)

	s.Add(ctx, p, SelectedDimensions{Width: "36"}, 1)
	s.Add(ctx, p, SelectedDimensions{Width: "32"}, 1)

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "7--36-", items[0].CartID)
	assert.Equal(t, "7--32-", items[1].CartID)
}

func TestAddDefaultsNonPositiveQuantity(t *testing.T) {
	s := NewStore(nil)
	line := s.Add(context.Background(), door(1), SelectedDimensions{}, 0)
	assert.Equal(t, DefaultQuantity, line.Quantity)
	assert.Equal(t, "1---", line.CartID)
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	s := NewStore(nil)
	line := s.Add(ctx, door(3), SelectedDimensions{Height: "80"}, 2)

	s.UpdateQuantity(ctx, line.CartID, 5)
	got, ok := s.Line(line.CartID)
	require.True(t, ok)
	assert.Equal(t, 5, got.Quantity)

	s.UpdateQuantity(ctx, line.CartID, 0)
	_, ok = s.Line(line.CartID)
	assert.False(t, ok)
	assert.Zero(t, s.ItemCount())

	// unknown ids are ignored
	s.UpdateQuantity(ctx, "missing", 4)
	assert.Empty(t, s.Items())
}

func TestRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	s := NewStore(nil)
	a := s.Add(ctx, door(1), SelectedDimensions{}, 1)
	s.Add(ctx, door(2), SelectedDimensions{}, 4)

	s.Remove(ctx, "nope")
	assert.Equal(t, 5, s.ItemCount())

	s.Remove(ctx, a.CartID)
	assert.Equal(t, 4, s.ItemCount())

	s.Clear(ctx)
	assert.Empty(t, s.Items())
	assert.Zero(t, s.ItemCount())
}

func TestLoadRehydratesAndSetsLoaded(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryPersister()

	first := NewStore(p)
	first.Add(ctx, door(9), SelectedDimensions{Thickness: "45"}, 2)

	second := NewStore(p)
	assert.False(t, second.Loaded())
	second.Load(ctx)
	assert.True(t, second.Loaded())
	assert.Equal(t, first.Items(), second.Items())
}

func TestLoadMergesDuplicateRecords(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryPersister()
	dims := SelectedDimensions{Width: "30"}
	require.NoError(t, p.Save(ctx, Snapshot{Items: []Line{
		{CartID: "stale", Product: ProductRef{ID: 4, Name: "Oak"}, SelectedDimensions: dims, Quantity: 1},
		{CartID: "4--30-", Product: ProductRef{ID: 4, Name: "Oak"}, SelectedDimensions: dims, Quantity: 2},
		{CartID: "5---", Product: ProductRef{ID: 5, Name: "Ash"}, Quantity: 0},
	}}))

	s := NewStore(p)
	s.Load(ctx)
	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "4--30-", items[0].CartID)
	assert.Equal(t, 3, items[0].Quantity)
}

type brokenPersister struct{ err error }

func (b brokenPersister) Load(context.Context) (Snapshot, error) { return Snapshot{}, b.err }
func (b brokenPersister) Save(context.Context, Snapshot) error   { return b.err }

func TestPersistenceFailuresDoNotFailOperations(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")
	var seen []error
	s := NewStore(brokenPersister{err: boom}, WithErrorHandler(func(err error) { seen = append(seen, err) }))

	s.Load(ctx)
	assert.True(t, s.Loaded())
	line := s.Add(ctx, door(1), SelectedDimensions{}, 2)
	s.UpdateQuantity(ctx, line.CartID, 3)

	assert.Equal(t, 3, s.ItemCount())
	require.Len(t, seen, 3)
	for _, err := range seen {
		assert.ErrorIs(t, err, boom)
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewStore(nil)
	s.Add(ctx, door(1), SelectedDimensions{}, 1)

	items := s.Items()
	items[0].Quantity = 99
	assert.Equal(t, 1, s.ItemCount())
}

func TestDimensionsText(t *testing.T) {
	assert.Equal(t, "N/A", SelectedDimensions{}.Text())
	assert.Equal(t, "W: 36″, H: N/A″, T: 40mm", SelectedDimensions{Width: "36", Thickness: "40"}.Text())
}

func TestDefaultSelectionPicksFirstOffered(t *testing.T) {
	offered := dbtypes.Dimensions{
		Thickness: []dbtypes.DimensionOption{{Value: "36"}, {Value: "40"}},
		Width:     []dbtypes.DimensionOption{{Value: "32"}},
	}

	got := DefaultSelection(offered, SelectedDimensions{Thickness: "40"})
	assert.Equal(t, SelectedDimensions{Thickness: "40", Width: "32"}, got)
}
