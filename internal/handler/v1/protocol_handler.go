package v1

import (
	"net/http"
	"time"

	"github.com/dosewise/dosewise/internal/domain/protocol"
	"github.com/dosewise/dosewise/internal/service"
	"github.com/dosewise/dosewise/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProtocolHandler struct {
	svc     *service.ProtocolService
	metrics *metrics.Collector
}

func NewProtocolHandler(svc *service.ProtocolService, m *metrics.Collector) *ProtocolHandler {
	return &ProtocolHandler{svc: svc, metrics: m}
}

type stageRequest struct {
	Dosage float64 `json:"dosage" binding:"required,gt=0"`
	Days   int     `json:"days" binding:"required,gt=0"`
	Note   string  `json:"note"`
}

type createProtocolRequest struct {
	MedicineID      uuid.UUID      `json:"medicine_id" binding:"required"`
	DosagePerIntake float64        `json:"dosage_per_intake"`
	TimeSchedule    []string       `json:"time_schedule"`
	Stages          []stageRequest `json:"titration_stages"`
}

func (h *ProtocolHandler) Create(c *gin.Context) {
	var req createProtocolRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.svc.CreateProtocol(c.Request.Context(), &protocol.CreateProtocolCommand{
		MedicineID:      req.MedicineID,
		DosagePerIntake: req.DosagePerIntake,
		TimeSchedule:    req.TimeSchedule,
		Stages:          toStages(req.Stages),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, p)
}

func (h *ProtocolHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	p, err := h.svc.GetProtocol(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

func (h *ProtocolHandler) List(c *gin.Context) {
	q := &protocol.ListProtocolsQuery{}
	if raw := c.Query("medicine_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid medicine_id"})
			return
		}
		q.MedicineID = &id
	}
	if raw := c.Query("active"); raw != "" {
		active := raw == "true"
		q.Active = &active
	}

	out, err := h.svc.ListProtocols(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, out)
}

// Titration returns the stage-progress snapshot as of now. A protocol without
// usable titration state yields a null snapshot, not an error.
func (h *ProtocolHandler) Titration(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	snap, err := h.svc.TitrationSnapshot(c.Request.Context(), id, time.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, snap)
}

type advanceStageRequest struct {
	ForceComplete bool `json:"force_complete"`
}

func (h *ProtocolHandler) AdvanceStage(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req advanceStageRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	p, err := h.svc.AdvanceStage(c.Request.Context(), id, time.Now(), req.ForceComplete)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.metrics.StageAdvancesTotal.Inc()
	respondOK(c, p)
}

type attachPlanRequest struct {
	Stages []stageRequest `json:"stages" binding:"required,min=1"`
}

func (h *ProtocolHandler) AttachPlan(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req attachPlanRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.svc.AttachPlan(c.Request.Context(), id, toStages(req.Stages))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

type updateScheduleRequest struct {
	TimeSchedule []string `json:"time_schedule" binding:"required"`
}

func (h *ProtocolHandler) UpdateSchedule(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateScheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.svc.UpdateSchedule(c.Request.Context(), id, req.TimeSchedule)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

type setActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

func (h *ProtocolHandler) SetActive(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req setActiveRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.svc.SetActive(c.Request.Context(), id, *req.Active)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

func (h *ProtocolHandler) Delete(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteProtocol(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func toStages(in []stageRequest) []protocol.TitrationStage {
	out := make([]protocol.TitrationStage, len(in))
	for i, s := range in {
		out[i] = protocol.TitrationStage{Dosage: s.Dosage, Days: s.Days, Note: s.Note}
	}
	return out
}
