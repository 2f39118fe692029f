package v1

import (
	"net/http"
	"time"

	"github.com/dosewise/dosewise/internal/domain/doselog"
	"github.com/dosewise/dosewise/internal/service"
	"github.com/dosewise/dosewise/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DoseHandler struct {
	svc     *service.DoseLogService
	metrics *metrics.Collector
}

func NewDoseHandler(svc *service.DoseLogService, m *metrics.Collector) *DoseHandler {
	return &DoseHandler{svc: svc, metrics: m}
}

type logDoseRequest struct {
	ProtocolID    uuid.UUID `json:"protocol_id" binding:"required"`
	QuantityTaken float64   `json:"quantity_taken"` // omit to use the protocol's current dosage
	TakenAt       time.Time `json:"taken_at"`
	Notes         string    `json:"notes"`
}

func (h *DoseHandler) Log(c *gin.Context) {
	var req logDoseRequest
	if !bindJSON(c, &req) {
		return
	}

	d, err := h.svc.LogDose(c.Request.Context(), &doselog.LogDoseCommand{
		ProtocolID:    req.ProtocolID,
		QuantityTaken: req.QuantityTaken,
		TakenAt:       req.TakenAt,
		Notes:         req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.metrics.DosesLoggedTotal.Inc()
	respondCreated(c, d)
}

func (h *DoseHandler) Delete(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteDose(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *DoseHandler) List(c *gin.Context) {
	q := &doselog.ListDosesQuery{Limit: parseQueryInt(c, "limit", 100)}

	if raw := c.Query("protocol_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid protocol_id"})
			return
		}
		q.ProtocolID = &id
	}
	if raw := c.Query("medicine_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid medicine_id"})
			return
		}
		q.MedicineID = &id
	}
	if days := parseQueryInt(c, "days", 0); days > 0 {
		since := time.Now().AddDate(0, 0, -days)
		q.Since = &since
	}

	out, err := h.svc.ListDoses(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, out)
}
