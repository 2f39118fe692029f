package service

import (
	"errors"
	"strings"
)

var ErrMedicineInUse = errors.New("medicine is referenced by a protocol")

type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}
