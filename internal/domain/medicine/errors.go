package medicine

import "errors"

var (
	ErrMedicineNotFound = errors.New("medicine not found")
	ErrNameRequired     = errors.New("medicine name is required")
	ErrUnitRequired     = errors.New("dosage unit is required")
	ErrInvalidDosage    = errors.New("dosage per unit must be positive")
	ErrInvalidType      = errors.New("medicine type must be 'medicine' or 'supplement'")
)
