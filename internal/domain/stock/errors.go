package stock

import "errors"

var (
	ErrLotNotFound          = errors.New("stock lot not found")
	ErrNonPositiveAmount    = errors.New("amount must be positive")
	ErrInsufficientStock    = errors.New("insufficient stock across all lots")
	ErrMedicineRequired     = errors.New("lot must reference a medicine")
	ErrNegativeQuantity     = errors.New("lot quantity cannot be negative")
	ErrNegativePrice        = errors.New("lot unit price cannot be negative")
	ErrPurchaseDateRequired = errors.New("lot purchase date is required")
)
