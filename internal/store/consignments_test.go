package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parceldirect/consign/internal/db"
	"github.com/parceldirect/consign/internal/model"
	"github.com/parceldirect/consign/internal/store"
)

func testConsignment(number int64) *model.Consignment {
	return &model.Consignment{
		AccountNo:         "A12345",
		Name:              "Anto",
		AddressLine1:      "Main Street",
		AddressLine2:      "Coosan",
		AddressLine3:      "Athlone",
		AddressLine4:      "Westmeath",
		Weight:            12,
		ConsignmentNumber: number,
		DeliveryDepot:     31,
	}
}

func TestCreateAndGet(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	created, err := store.Create(ctx, database, testConsignment(1))
	require.NoError(t, err)

	assert.NotZero(t, created.ID)
	assert.Equal(t, "A12345", created.AccountNo)
	assert.Equal(t, "Coosan", created.AddressLine2)
	assert.Equal(t, int64(1), created.ConsignmentNumber)
	assert.Equal(t, 31, created.DeliveryDepot)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := store.Get(ctx, database, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.ConsignmentNumber, got.ConsignmentNumber)
}

func TestCreate_BlankAddressLine2(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	c := testConsignment(1)
	c.AddressLine2 = ""

	created, err := store.Create(ctx, database, c)
	require.NoError(t, err)
	assert.Empty(t, created.AddressLine2)
}

func TestCreate_DuplicateNumber(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	_, err := store.Create(ctx, database, testConsignment(7))
	require.NoError(t, err)

	_, err = store.Create(ctx, database, testConsignment(7))
	assert.ErrorIs(t, err, store.ErrDuplicateNumber)
}

func TestGet_NotFound(t *testing.T) {
	database := db.NewTestDB(t)

	_, err := store.Get(context.Background(), database, 42)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetByNumber(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	created, err := store.Create(ctx, database, testConsignment(99))
	require.NoError(t, err)

	got, err := store.GetByNumber(ctx, database, 99)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = store.GetByNumber(ctx, database, 100)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestList(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	cons, err := store.List(ctx, database)
	require.NoError(t, err)
	assert.Empty(t, cons)

	for _, n := range []int64{1, 2, 3} {
		_, err := store.Create(ctx, database, testConsignment(n))
		require.NoError(t, err)
	}

	cons, err = store.List(ctx, database)
	require.NoError(t, err)
	require.Len(t, cons, 3)
	assert.Equal(t, int64(1), cons[0].ConsignmentNumber)
	assert.Equal(t, int64(3), cons[2].ConsignmentNumber)
}

func TestNumbersForAccount(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	for _, n := range []int64{5, 2, 9} {
		_, err := store.Create(ctx, database, testConsignment(n))
		require.NoError(t, err)
	}

	other := testConsignment(50)
	other.AccountNo = "A99999"
	_, err := store.Create(ctx, database, other)
	require.NoError(t, err)

	numbers, err := store.NumbersForAccount(ctx, database, "A12345")
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 5, 9}, numbers)

	_, err = store.NumbersForAccount(ctx, database, "A00000")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdate(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	created, err := store.Create(ctx, database, testConsignment(1))
	require.NoError(t, err)

	name := "Siobhan"
	weight := 30
	updated, err := store.Update(ctx, database, created.ID,
		model.Patch{Name: &name, Weight: &weight}, nil)
	require.NoError(t, err)

	assert.Equal(t, "Siobhan", updated.Name)
	assert.Equal(t, 30, updated.Weight)
	// Untouched fields survive.
	assert.Equal(t, "Main Street", updated.AddressLine1)
	assert.Equal(t, 31, updated.DeliveryDepot)
}

func TestUpdate_DepotOverride(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	created, err := store.Create(ctx, database, testConsignment(1))
	require.NoError(t, err)

	area := "Cork"
	depot := 62
	updated, err := store.Update(ctx, database, created.ID,
		model.Patch{AddressLine4: &area}, &depot)
	require.NoError(t, err)

	assert.Equal(t, "Cork", updated.AddressLine4)
	assert.Equal(t, 62, updated.DeliveryDepot)
}

func TestUpdate_ClearAddressLine2(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	created, err := store.Create(ctx, database, testConsignment(1))
	require.NoError(t, err)
	require.Equal(t, "Coosan", created.AddressLine2)

	blank := ""
	updated, err := store.Update(ctx, database, created.ID,
		model.Patch{AddressLine2: &blank}, nil)
	require.NoError(t, err)
	assert.Empty(t, updated.AddressLine2)
}

func TestUpdate_EmptyPatch(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	created, err := store.Create(ctx, database, testConsignment(1))
	require.NoError(t, err)

	updated, err := store.Update(ctx, database, created.ID, model.Patch{}, nil)
	require.NoError(t, err)
	assert.Equal(t, created.Name, updated.Name)
}

func TestUpdate_NotFound(t *testing.T) {
	database := db.NewTestDB(t)

	name := "Anto"
	_, err := store.Update(context.Background(), database, 42,
		model.Patch{Name: &name}, nil)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDelete(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	created, err := store.Create(ctx, database, testConsignment(1))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, database, created.ID))

	_, err = store.Get(ctx, database, created.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, store.Delete(ctx, database, created.ID), store.ErrNotFound)
}
