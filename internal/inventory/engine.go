package inventory

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Beikwaw/RezTek/internal/model"
	"github.com/Beikwaw/RezTek/internal/realtime"
)

// Engine failures callers are expected to branch on.
var (
	ErrNameRequired      = errors.New("item name is required")
	ErrInvalidCategory   = errors.New("category is required and must be a known category")
	ErrInvalidResidence  = errors.New("residence is required and must be a known residence")
	ErrNegativeQuantity  = errors.New("quantity must not be negative")
	ErrInvalidAmount     = errors.New("adjustment amount must be positive")
	ErrReasonRequired    = errors.New("a reason is required for every adjustment")
	ErrInvalidType       = errors.New("adjustment type must be add or remove")
	ErrInsufficientStock = errors.New("cannot remove more than the available quantity")
	ErrItemNotFound      = errors.New("stock item not found")
)

// UnknownItemName is what transaction readers see for ledger entries whose
// item has since been deleted.
const UnknownItemName = "Unknown Item"

// Engine governs stock item definitions, quantity mutations and the
// append-only transaction ledger. Every quantity change is paired with
// exactly one ledger entry in the same database transaction.
type Engine struct {
	db  *gorm.DB
	log *zap.Logger
	hub *realtime.Hub
}

// NewEngine creates a stock inventory engine.
func NewEngine(db *gorm.DB, log *zap.Logger, hub *realtime.Hub) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{db: db, log: log, hub: hub}
}

// CreateItemInput carries the fields for a new stock item. Quantity and
// MinQuantity default to zero.
type CreateItemInput struct {
	Name        string
	Category    model.StockCategory
	Quantity    int
	MinQuantity int
	Unit        string
	Residence   model.Residence
	Notes       string
}

// CreateItem validates and persists a new stock item.
func (e *Engine) CreateItem(input CreateItemInput) (*model.StockItem, error) {
	if input.Name == "" {
		return nil, ErrNameRequired
	}
	if !input.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	if !input.Residence.Valid() {
		return nil, ErrInvalidResidence
	}
	if input.Quantity < 0 || input.MinQuantity < 0 {
		return nil, ErrNegativeQuantity
	}

	item := model.StockItem{
		Name:        input.Name,
		Category:    input.Category,
		Quantity:    input.Quantity,
		MinQuantity: input.MinQuantity,
		Unit:        input.Unit,
		Residence:   input.Residence,
		Notes:       input.Notes,
		LastUpdated: time.Now(),
	}

	if result := e.db.Create(&item); result.Error != nil {
		e.log.Error("Failed to create stock item",
			zap.String("name", input.Name),
			zap.Error(result.Error))
		return nil, result.Error
	}
	item.LowStock = item.IsLowStock()

	e.log.Info("Stock item created",
		zap.Uint("item_id", item.ID),
		zap.String("name", item.Name),
		zap.String("residence", string(item.Residence)))

	e.hub.Publish(realtime.Event{
		Collection: realtime.CollectionStockItems,
		Action:     realtime.ActionCreated,
		Payload:    item,
	})

	return &item, nil
}

// UpdateItemInput carries the mutable attributes of a stock item. Quantity is
// deliberately absent: quantity only changes through AdjustQuantity so the
// ledger invariant holds.
type UpdateItemInput struct {
	Name        string
	Category    model.StockCategory
	MinQuantity int
	Unit        string
	Residence   model.Residence
	Notes       string
}

// UpdateItem replaces the item's mutable attributes.
func (e *Engine) UpdateItem(itemID uint, input UpdateItemInput) (*model.StockItem, error) {
	if input.Name == "" {
		return nil, ErrNameRequired
	}
	if !input.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	if !input.Residence.Valid() {
		return nil, ErrInvalidResidence
	}
	if input.MinQuantity < 0 {
		return nil, ErrNegativeQuantity
	}

	var item model.StockItem
	if result := e.db.First(&item, itemID); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, result.Error
	}

	item.Name = input.Name
	item.Category = input.Category
	item.MinQuantity = input.MinQuantity
	item.Unit = input.Unit
	item.Residence = input.Residence
	item.Notes = input.Notes
	item.LastUpdated = time.Now()

	if result := e.db.Model(&item).
		Select("name", "category", "min_quantity", "unit", "residence", "notes", "last_updated").
		Updates(&item); result.Error != nil {
		e.log.Error("Failed to update stock item",
			zap.Uint("item_id", itemID),
			zap.Error(result.Error))
		return nil, result.Error
	}
	item.LowStock = item.IsLowStock()

	e.hub.Publish(realtime.Event{
		Collection: realtime.CollectionStockItems,
		Action:     realtime.ActionUpdated,
		Payload:    item,
	})

	return &item, nil
}

// AdjustQuantity applies one add or remove to an item's quantity and appends
// the matching ledger entry in the same database transaction. A removal that
// would drive the quantity negative is rejected before any write: the item is
// left unchanged and no transaction is recorded.
func (e *Engine) AdjustQuantity(itemID uint, txType model.TransactionType, amount int, reason, actorID string) (*model.StockItem, *model.StockTransaction, error) {
	if !txType.Valid() {
		return nil, nil, ErrInvalidType
	}
	if amount <= 0 {
		return nil, nil, ErrInvalidAmount
	}
	if reason == "" {
		return nil, nil, ErrReasonRequired
	}

	var item model.StockItem
	if result := e.db.First(&item, itemID); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil, ErrItemNotFound
		}
		return nil, nil, result.Error
	}

	newQuantity := item.Quantity + amount
	if txType == model.TransactionRemove {
		newQuantity = item.Quantity - amount
	}
	if newQuantity < 0 {
		e.log.Warn("Rejected stock removal that would go negative",
			zap.Uint("item_id", itemID),
			zap.Int("available", item.Quantity),
			zap.Int("requested", amount))
		return nil, nil, ErrInsufficientStock
	}

	now := time.Now()
	transaction := model.StockTransaction{
		StockItemID: itemID,
		Type:        txType,
		Quantity:    amount,
		Date:        now,
		UpdatedBy:   actorID,
		Reason:      reason,
	}

	err := e.db.Transaction(func(tx *gorm.DB) error {
		if result := tx.Model(&model.StockItem{}).
			Where("id = ?", itemID).
			Updates(map[string]interface{}{"quantity": newQuantity, "last_updated": now}); result.Error != nil {
			return result.Error
		}
		return tx.Create(&transaction).Error
	})
	if err != nil {
		e.log.Error("Failed to adjust stock quantity",
			zap.Uint("item_id", itemID),
			zap.Error(err))
		return nil, nil, err
	}

	item.Quantity = newQuantity
	item.LastUpdated = now
	item.LowStock = item.IsLowStock()

	e.log.Info("Stock quantity adjusted",
		zap.Uint("item_id", itemID),
		zap.String("type", string(txType)),
		zap.Int("amount", amount),
		zap.Int("new_quantity", newQuantity),
		zap.String("actor", actorID))

	e.hub.Publish(realtime.Event{
		Collection: realtime.CollectionStockItems,
		Action:     realtime.ActionUpdated,
		Payload:    item,
	})
	e.hub.Publish(realtime.Event{
		Collection: realtime.CollectionTransactions,
		Action:     realtime.ActionCreated,
		Payload:    transaction,
	})

	return &item, &transaction, nil
}

// DeleteItem removes a stock item. The ledger is append-only, so historical
// transactions referencing the item remain and resolve to "Unknown Item".
func (e *Engine) DeleteItem(itemID uint) error {
	result := e.db.Delete(&model.StockItem{}, itemID)
	if result.Error != nil {
		e.log.Error("Failed to delete stock item",
			zap.Uint("item_id", itemID),
			zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}

	e.log.Info("Stock item deleted", zap.Uint("item_id", itemID))

	e.hub.Publish(realtime.Event{
		Collection: realtime.CollectionStockItems,
		Action:     realtime.ActionDeleted,
		Payload:    itemID,
	})

	return nil
}

// ListFilter narrows the item listing. "All" and the empty string both mean
// no filter, matching the dashboard's selector values.
type ListFilter struct {
	Residence string
	Category  string
	Search    string
}

// List returns items matching all supplied predicates: residence exact match,
// category exact match, case-insensitive substring match on name.
func (e *Engine) List(filter ListFilter) ([]model.StockItem, error) {
	query := e.db.Order("name ASC")

	if filter.Residence != "" && filter.Residence != "All" {
		query = query.Where("residence = ?", filter.Residence)
	}
	if filter.Category != "" && filter.Category != "All" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}

	var items []model.StockItem
	if result := query.Find(&items); result.Error != nil {
		return nil, result.Error
	}
	for i := range items {
		items[i].LowStock = items[i].IsLowStock()
	}
	return items, nil
}

// Get returns a single item by id.
func (e *Engine) Get(itemID uint) (*model.StockItem, error) {
	var item model.StockItem
	if result := e.db.First(&item, itemID); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, result.Error
	}
	item.LowStock = item.IsLowStock()
	return &item, nil
}

// LowStock returns items at or below their reorder threshold, optionally
// limited to one residence.
func (e *Engine) LowStock(residence string) ([]model.StockItem, error) {
	query := e.db.Where("quantity <= min_quantity").Order("name ASC")
	if residence != "" && residence != "All" {
		query = query.Where("residence = ?", residence)
	}

	var items []model.StockItem
	if result := query.Find(&items); result.Error != nil {
		return nil, result.Error
	}
	for i := range items {
		items[i].LowStock = true
	}
	return items, nil
}

// Transactions returns ledger entries newest first, optionally limited to one
// item. Entries for deleted items resolve to "Unknown Item".
func (e *Engine) Transactions(itemID uint) ([]model.StockTransaction, error) {
	query := e.db.Order("date DESC")
	if itemID != 0 {
		query = query.Where("stock_item_id = ?", itemID)
	}

	var transactions []model.StockTransaction
	if result := query.Find(&transactions); result.Error != nil {
		return nil, result.Error
	}

	// Resolve item names in one pass so history reads never fail on
	// deleted items.
	names := make(map[uint]string)
	var items []model.StockItem
	if result := e.db.Select("id", "name").Find(&items); result.Error == nil {
		for _, item := range items {
			names[item.ID] = item.Name
		}
	}
	for i := range transactions {
		name, ok := names[transactions[i].StockItemID]
		if !ok {
			name = UnknownItemName
		}
		transactions[i].ItemName = name
	}

	return transactions, nil
}
