package v1

import (
	"net/http"

	"github.com/dosewise/dosewise/internal/domain/medicine"
	"github.com/dosewise/dosewise/internal/service"
	"github.com/gin-gonic/gin"
)

type MedicineHandler struct {
	svc *service.MedicineService
}

func NewMedicineHandler(svc *service.MedicineService) *MedicineHandler {
	return &MedicineHandler{svc: svc}
}

type createMedicineRequest struct {
	Name          string  `json:"name" binding:"required"`
	DosagePerUnit float64 `json:"dosage_per_unit" binding:"required,gt=0"`
	DosageUnit    string  `json:"dosage_unit" binding:"required"`
	Type          string  `json:"type"`
	Notes         string  `json:"notes"`
}

func (h *MedicineHandler) Create(c *gin.Context) {
	var req createMedicineRequest
	if !bindJSON(c, &req) {
		return
	}

	m, err := h.svc.CreateMedicine(c.Request.Context(), &medicine.CreateMedicineCommand{
		Name:          req.Name,
		DosagePerUnit: req.DosagePerUnit,
		DosageUnit:    req.DosageUnit,
		Type:          medicine.Type(req.Type),
		Notes:         req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, m)
}

func (h *MedicineHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	m, err := h.svc.GetMedicine(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, m)
}

func (h *MedicineHandler) List(c *gin.Context) {
	out, err := h.svc.ListMedicines(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, out)
}

type updateMedicineRequest struct {
	Name          *string  `json:"name"`
	DosagePerUnit *float64 `json:"dosage_per_unit"`
	DosageUnit    *string  `json:"dosage_unit"`
	Type          *string  `json:"type"`
	Notes         *string  `json:"notes"`
}

func (h *MedicineHandler) Update(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateMedicineRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &medicine.UpdateMedicineCommand{
		Name:          req.Name,
		DosagePerUnit: req.DosagePerUnit,
		DosageUnit:    req.DosageUnit,
		Notes:         req.Notes,
	}
	if req.Type != nil {
		t := medicine.Type(*req.Type)
		cmd.Type = &t
	}

	m, err := h.svc.UpdateMedicine(c.Request.Context(), id, cmd)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, m)
}

func (h *MedicineHandler) Delete(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteMedicine(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
