package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dosewise/dosewise/internal/domain/doselog"
	"github.com/dosewise/dosewise/internal/domain/medicine"
	"github.com/dosewise/dosewise/internal/domain/protocol"
	"github.com/dosewise/dosewise/internal/domain/stock"
	"github.com/dosewise/dosewise/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type APIResponse[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type ValidationErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse[any]{Data: data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, APIResponse[any]{Data: data})
}

func respondServiceError(c *gin.Context, err error) {
	var validErr *service.ValidationError
	if errors.As(err, &validErr) {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{
			Error:  "validation failed",
			Fields: validErr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, medicine.ErrMedicineNotFound),
		errors.Is(err, protocol.ErrProtocolNotFound),
		errors.Is(err, stock.ErrLotNotFound),
		errors.Is(err, doselog.ErrDoseLogNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})

	case errors.Is(err, stock.ErrInsufficientStock):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "INSUFFICIENT_STOCK"})

	case errors.Is(err, service.ErrMedicineInUse):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})

	case errors.Is(err, stock.ErrNonPositiveAmount),
		errors.Is(err, stock.ErrNegativeQuantity),
		errors.Is(err, stock.ErrNegativePrice),
		errors.Is(err, stock.ErrMedicineRequired),
		errors.Is(err, stock.ErrPurchaseDateRequired),
		errors.Is(err, protocol.ErrNoTitrationPlan),
		errors.Is(err, protocol.ErrInvalidStage),
		errors.Is(err, protocol.ErrInvalidTimeOfDay),
		errors.Is(err, protocol.ErrInvalidDosage),
		errors.Is(err, medicine.ErrNameRequired),
		errors.Is(err, medicine.ErrUnitRequired),
		errors.Is(err, medicine.ErrInvalidDosage),
		errors.Is(err, medicine.ErrInvalidType),
		errors.Is(err, doselog.ErrNonPositiveDose),
		errors.Is(err, doselog.ErrTakenAtInFuture):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return false
	}

	return true
}

func parseUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	raw := c.Param(param)
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + param + ": must be a valid UUID"})
		return uuid.Nil, false
	}
	return id, true
}

func parseQueryInt(c *gin.Context, key string, defaultVal int) int {
	if raw := c.Query(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return defaultVal
}
