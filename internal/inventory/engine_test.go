package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Beikwaw/RezTek/internal/model"
	"github.com/Beikwaw/RezTek/internal/realtime"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.StockItem{},
		&model.StockTransaction{},
	))

	return NewEngine(db, nil, realtime.NewHub(nil))
}

func seedItem(t *testing.T, engine *Engine, name string, quantity, minQuantity int, residence model.Residence) *model.StockItem {
	t.Helper()
	item, err := engine.CreateItem(CreateItemInput{
		Name:        name,
		Category:    model.CategoryElectrical,
		Quantity:    quantity,
		MinQuantity: minQuantity,
		Unit:        "pcs",
		Residence:   residence,
	})
	require.NoError(t, err)
	return item
}

func TestCreateItemValidation(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.CreateItem(CreateItemInput{Category: model.CategoryPlumbing, Residence: model.ResidenceSaltRiver})
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = engine.CreateItem(CreateItemInput{Name: "Taps", Category: "Gardening", Residence: model.ResidenceSaltRiver})
	assert.ErrorIs(t, err, ErrInvalidCategory)

	_, err = engine.CreateItem(CreateItemInput{Name: "Taps", Category: model.CategoryPlumbing, Residence: "Nowhere"})
	assert.ErrorIs(t, err, ErrInvalidResidence)

	_, err = engine.CreateItem(CreateItemInput{Name: "Taps", Category: model.CategoryPlumbing, Residence: model.ResidenceSaltRiver, Quantity: -1})
	assert.ErrorIs(t, err, ErrNegativeQuantity)
}

func TestAdjustQuantityRoundTrip(t *testing.T) {
	engine := newTestEngine(t)
	item := seedItem(t, engine, "Extension Cords", 10, 5, model.ResidenceObservatory)

	updated, _, err := engine.AdjustQuantity(item.ID, model.TransactionAdd, 5, "restock", "admin@test")
	require.NoError(t, err)
	assert.Equal(t, 15, updated.Quantity)

	updated, _, err = engine.AdjustQuantity(item.ID, model.TransactionRemove, 5, "issued to maintenance", "admin@test")
	require.NoError(t, err)
	assert.Equal(t, 10, updated.Quantity)

	transactions, err := engine.Transactions(item.ID)
	require.NoError(t, err)
	assert.Len(t, transactions, 2)
}

func TestAdjustQuantityValidation(t *testing.T) {
	engine := newTestEngine(t)
	item := seedItem(t, engine, "Mops", 4, 2, model.ResidenceSaltRiver)

	_, _, err := engine.AdjustQuantity(item.ID, "transfer", 1, "reason", "admin@test")
	assert.ErrorIs(t, err, ErrInvalidType)

	_, _, err = engine.AdjustQuantity(item.ID, model.TransactionAdd, 0, "reason", "admin@test")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, _, err = engine.AdjustQuantity(item.ID, model.TransactionAdd, 1, "", "admin@test")
	assert.ErrorIs(t, err, ErrReasonRequired)

	_, _, err = engine.AdjustQuantity(9999, model.TransactionAdd, 1, "reason", "admin@test")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestRemoveBeyondAvailableIsRejected(t *testing.T) {
	engine := newTestEngine(t)
	item := seedItem(t, engine, "Shower Heads", 3, 1, model.ResidenceSaltRiver)

	_, _, err := engine.AdjustQuantity(item.ID, model.TransactionRemove, 4, "overdraw", "admin@test")
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// Quantity unchanged, no ledger entry recorded
	refreshed, err := engine.Get(item.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, refreshed.Quantity)

	transactions, err := engine.Transactions(item.ID)
	require.NoError(t, err)
	assert.Empty(t, transactions)
}

func TestLowStockScenario(t *testing.T) {
	engine := newTestEngine(t)
	item := seedItem(t, engine, "Light Bulbs", 10, 5, model.ResidenceSaltRiver)

	updated, transaction, err := engine.AdjustQuantity(item.ID, model.TransactionRemove, 7, "issued for repairs", "admin@test")
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Quantity)
	assert.True(t, updated.LowStock)
	assert.Equal(t, model.TransactionRemove, transaction.Type)
	assert.Equal(t, 7, transaction.Quantity)

	// Removing more than remains is rejected and the quantity stays put
	_, _, err = engine.AdjustQuantity(item.ID, model.TransactionRemove, 10, "overdraw", "admin@test")
	assert.ErrorIs(t, err, ErrInsufficientStock)

	refreshed, err := engine.Get(item.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, refreshed.Quantity)

	low, err := engine.LowStock(string(model.ResidenceSaltRiver))
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, item.ID, low[0].ID)
}

func TestUpdateItemNeverTouchesQuantity(t *testing.T) {
	engine := newTestEngine(t)
	item := seedItem(t, engine, "Door Handles", 8, 10, model.ResidenceObservatory)

	updated, err := engine.UpdateItem(item.ID, UpdateItemInput{
		Name:        "Door Handles (interior)",
		Category:    model.CategoryFurniture,
		MinQuantity: 4,
		Unit:        "sets",
		Residence:   model.ResidenceObservatory,
		Notes:       "with locks",
	})
	require.NoError(t, err)
	assert.Equal(t, "Door Handles (interior)", updated.Name)
	assert.Equal(t, 8, updated.Quantity)
	assert.False(t, updated.LowStock)

	// No ledger entry for an attribute update
	transactions, err := engine.Transactions(item.ID)
	require.NoError(t, err)
	assert.Empty(t, transactions)
}

func TestDeleteItemKeepsLedger(t *testing.T) {
	engine := newTestEngine(t)
	item := seedItem(t, engine, "Cleaning Solution", 15, 5, model.ResidenceObservatory)

	_, _, err := engine.AdjustQuantity(item.ID, model.TransactionRemove, 2, "weekly cleaning", "admin@test")
	require.NoError(t, err)

	require.NoError(t, engine.DeleteItem(item.ID))
	assert.ErrorIs(t, engine.DeleteItem(item.ID), ErrItemNotFound)

	// Historical transactions survive and resolve to Unknown Item
	transactions, err := engine.Transactions(item.ID)
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, UnknownItemName, transactions[0].ItemName)
}

func TestListFilters(t *testing.T) {
	engine := newTestEngine(t)
	seedItem(t, engine, "Light Bulbs", 45, 20, model.ResidenceSaltRiver)
	seedItem(t, engine, "Extension Cords", 10, 5, model.ResidenceObservatory)

	plungers, err := engine.CreateItem(CreateItemInput{
		Name:      "Toilet Plungers",
		Category:  model.CategoryPlumbing,
		Quantity:  6,
		Unit:      "pcs",
		Residence: model.ResidenceSaltRiver,
	})
	require.NoError(t, err)

	all, err := engine.List(ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	saltRiver, err := engine.List(ListFilter{Residence: string(model.ResidenceSaltRiver)})
	require.NoError(t, err)
	assert.Len(t, saltRiver, 2)

	plumbing, err := engine.List(ListFilter{Category: string(model.CategoryPlumbing)})
	require.NoError(t, err)
	require.Len(t, plumbing, 1)
	assert.Equal(t, plungers.ID, plumbing[0].ID)

	// Case-insensitive substring search on name
	search, err := engine.List(ListFilter{Search: "bulb"})
	require.NoError(t, err)
	require.Len(t, search, 1)
	assert.Equal(t, "Light Bulbs", search[0].Name)

	// "All" behaves like no filter
	allAgain, err := engine.List(ListFilter{Residence: "All", Category: "All"})
	require.NoError(t, err)
	assert.Len(t, allAgain, 3)
}
