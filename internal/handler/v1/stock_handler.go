package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/dosewise/dosewise/internal/domain/stock"
	"github.com/dosewise/dosewise/internal/service"
	"github.com/dosewise/dosewise/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type StockHandler struct {
	svc     *service.StockService
	metrics *metrics.Collector
}

func NewStockHandler(svc *service.StockService, m *metrics.Collector) *StockHandler {
	return &StockHandler{svc: svc, metrics: m}
}

type addLotRequest struct {
	MedicineID     uuid.UUID  `json:"medicine_id" binding:"required"`
	Quantity       float64    `json:"quantity" binding:"required,gt=0"`
	UnitPrice      float64    `json:"unit_price" binding:"gte=0"`
	PurchaseDate   time.Time  `json:"purchase_date" binding:"required"`
	ExpirationDate *time.Time `json:"expiration_date"`
	Notes          string     `json:"notes"`
}

func (h *StockHandler) AddLot(c *gin.Context) {
	var req addLotRequest
	if !bindJSON(c, &req) {
		return
	}

	lot := &stock.Lot{
		MedicineID:     req.MedicineID,
		Quantity:       req.Quantity,
		UnitPrice:      req.UnitPrice,
		PurchaseDate:   req.PurchaseDate,
		ExpirationDate: req.ExpirationDate,
		Notes:          req.Notes,
	}
	if err := h.svc.Add(c.Request.Context(), lot); err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, lot)
}

func (h *StockHandler) ListLots(c *gin.Context) {
	medicineID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	lots, err := h.svc.ListLots(c.Request.Context(), medicineID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, lots)
}

func (h *StockHandler) Total(c *gin.Context) {
	medicineID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	total, err := h.svc.TotalQuantity(c.Request.Context(), medicineID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"medicine_id": medicineID, "total_quantity": total})
}

type adjustStockRequest struct {
	Amount float64 `json:"amount" binding:"required"`
	Reason string  `json:"reason"`
}

// Adjust applies a manual correction: positive amounts append an adjustment
// lot, negative amounts consume stock FIFO.
func (h *StockHandler) Adjust(c *gin.Context) {
	medicineID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req adjustStockRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	if req.Amount > 0 {
		lot, err := h.svc.Increase(ctx, medicineID, req.Amount, req.Reason)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		h.metrics.StockIncreasesTotal.Inc()
		respondCreated(c, lot)
		return
	}

	if err := h.svc.Decrease(ctx, medicineID, -req.Amount); err != nil {
		if errors.Is(err, stock.ErrInsufficientStock) {
			h.metrics.InsufficientStock.Inc()
		}
		respondServiceError(c, err)
		return
	}
	h.metrics.StockDecreasesTotal.Inc()
	respondOK(c, gin.H{"medicine_id": medicineID, "adjusted": req.Amount})
}

func (h *StockHandler) DeleteLot(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
