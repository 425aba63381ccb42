package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Beikwaw/RezTek/internal/inventory"
	"github.com/Beikwaw/RezTek/internal/model"
	"github.com/Beikwaw/RezTek/pkg/logger"
	"github.com/Beikwaw/RezTek/prometheus"
)

// StockItemRequest defines the structure for item creation/update requests
type StockItemRequest struct {
	Name        string              `json:"name"`
	Category    model.StockCategory `json:"category"`
	Quantity    int                 `json:"quantity"`
	MinQuantity int                 `json:"min_quantity"`
	Unit        string              `json:"unit"`
	Residence   model.Residence     `json:"residence"`
	Notes       string              `json:"notes"`
}

func stockErrorStatus(err error) int {
	switch {
	case errors.Is(err, inventory.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, inventory.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, inventory.ErrNameRequired),
		errors.Is(err, inventory.ErrInvalidCategory),
		errors.Is(err, inventory.ErrInvalidResidence),
		errors.Is(err, inventory.ErrNegativeQuantity),
		errors.Is(err, inventory.ErrInvalidAmount),
		errors.Is(err, inventory.ErrReasonRequired),
		errors.Is(err, inventory.ErrInvalidType):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// CreateStockItem adds a new item to the inventory
func CreateStockItem(c echo.Context) error {
	log := logger.FromContext(c)

	var req StockItemRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse stock item", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	item, err := stock.CreateItem(inventory.CreateItemInput{
		Name:        req.Name,
		Category:    req.Category,
		Quantity:    req.Quantity,
		MinQuantity: req.MinQuantity,
		Unit:        req.Unit,
		Residence:   req.Residence,
		Notes:       req.Notes,
	})
	if err != nil {
		status := stockErrorStatus(err)
		if status == http.StatusInternalServerError {
			log.Error("Failed to create stock item", zap.Error(err))
			prometheus.RecordPortalError("db_error")
			return c.JSON(status, echo.Map{"error": "failed to create item"})
		}
		return c.JSON(status, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusCreated, item)
}

// ListStockItems returns inventory filtered by residence, category and a
// case-insensitive name search
func ListStockItems(c echo.Context) error {
	log := logger.FromContext(c)

	items, err := stock.List(inventory.ListFilter{
		Residence: c.QueryParam("residence"),
		Category:  c.QueryParam("category"),
		Search:    c.QueryParam("search"),
	})
	if err != nil {
		log.Error("Failed to list stock", zap.Error(err))
		prometheus.RecordPortalError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve stock"})
	}

	log.Info("Stock retrieved", zap.Int("count", len(items)))
	return c.JSON(http.StatusOK, items)
}

// UpdateStockItem replaces an item's mutable attributes. Quantity is not
// among them; it only changes through AdjustStockQuantity.
func UpdateStockItem(c echo.Context) error {
	log := logger.FromContext(c)

	itemID, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
	}

	var req StockItemRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse stock update", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	item, err := stock.UpdateItem(itemID, inventory.UpdateItemInput{
		Name:        req.Name,
		Category:    req.Category,
		MinQuantity: req.MinQuantity,
		Unit:        req.Unit,
		Residence:   req.Residence,
		Notes:       req.Notes,
	})
	if err != nil {
		status := stockErrorStatus(err)
		if status == http.StatusInternalServerError {
			log.Error("Failed to update stock item", zap.Error(err))
			prometheus.RecordPortalError("db_error")
			return c.JSON(status, echo.Map{"error": "failed to update item"})
		}
		return c.JSON(status, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, item)
}

// AdjustStockQuantity applies one add/remove adjustment and records the
// matching ledger entry
func AdjustStockQuantity(c echo.Context) error {
	log := logger.FromContext(c)

	itemID, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
	}

	var req struct {
		Type   model.TransactionType `json:"type"`
		Amount int                   `json:"amount"`
		Reason string                `json:"reason"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse adjustment", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	actor, _ := c.Get("email").(string)

	defer prometheus.TrackDBOperation("update")(time.Now())
	item, transaction, err := stock.AdjustQuantity(itemID, req.Type, req.Amount, req.Reason, actor)
	if err != nil {
		status := stockErrorStatus(err)
		if status == http.StatusInternalServerError {
			log.Error("Failed to adjust quantity", zap.Error(err))
			prometheus.RecordPortalError("db_error")
			return c.JSON(status, echo.Map{"error": "failed to adjust quantity"})
		}
		if errors.Is(err, inventory.ErrInsufficientStock) {
			prometheus.RecordPortalError("insufficient_stock")
		}
		return c.JSON(status, echo.Map{"error": err.Error()})
	}

	prometheus.StockAdjustmentCounter.WithLabelValues(string(req.Type)).Inc()
	return c.JSON(http.StatusOK, echo.Map{
		"item":        item,
		"transaction": transaction,
	})
}

// DeleteStockItem removes an item; its ledger history survives
func DeleteStockItem(c echo.Context) error {
	log := logger.FromContext(c)

	itemID, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := stock.DeleteItem(itemID); err != nil {
		if errors.Is(err, inventory.ErrItemNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "item not found"})
		}
		log.Error("Failed to delete stock item", zap.Error(err))
		prometheus.RecordPortalError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete item"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "item deleted"})
}

// ListStockTransactions returns the ledger, newest first, optionally scoped
// to one item via ?item_id=
func ListStockTransactions(c echo.Context) error {
	log := logger.FromContext(c)

	var itemID uint
	if raw := c.QueryParam("item_id"); raw != "" {
		parsed, err := parseID(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
		}
		itemID = parsed
	}

	transactions, err := stock.Transactions(itemID)
	if err != nil {
		log.Error("Failed to list transactions", zap.Error(err))
		prometheus.RecordPortalError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve transactions"})
	}

	return c.JSON(http.StatusOK, transactions)
}

// ListLowStock returns items at or below their reorder threshold and updates
// the low-stock gauge while it is at it
func ListLowStock(c echo.Context) error {
	log := logger.FromContext(c)

	residence := c.QueryParam("residence")
	items, err := stock.LowStock(residence)
	if err != nil {
		log.Error("Failed to list low stock", zap.Error(err))
		prometheus.RecordPortalError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve low stock"})
	}

	// Reset every residence first so one that recovers drops back to zero
	counts := make(map[string]int)
	for _, r := range model.Residences {
		counts[string(r)] = 0
	}
	for _, item := range items {
		counts[string(item.Residence)]++
	}
	for residence, count := range counts {
		prometheus.LowStockGauge.WithLabelValues(residence).Set(float64(count))
	}

	return c.JSON(http.StatusOK, items)
}
