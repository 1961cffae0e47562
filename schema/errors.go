package schema

import (
	"errors"
	"fmt"
)

// Errors returned by the ranking and scoring operations.
// Callers should match them with errors.Is.
var (
	ErrFieldNotFound      = errors.New("field not found")
	ErrEmptyPopulation    = errors.New("empty population")
	ErrMappingUnavailable = errors.New("region mapping unavailable")
	ErrUnknownComponent   = errors.New("unknown component")
	ErrPartnerNotFound    = errors.New("partner not found")
)

// FieldNotFound wraps ErrFieldNotFound with the missing column name.
func FieldNotFound(field string) error {
	return fmt.Errorf("%w: %q", ErrFieldNotFound, field)
}

// FieldNotNumeric wraps ErrFieldNotFound for a column that exists but holds
// no numeric value in any row.
func FieldNotNumeric(field string) error {
	return fmt.Errorf("%w: %q holds no numeric values", ErrFieldNotFound, field)
}

// PartnerNotFound wraps ErrPartnerNotFound with the requested identifier.
func PartnerNotFound(partnerID int) error {
	return fmt.Errorf("%w: %d", ErrPartnerNotFound, partnerID)
}

func unknownComponent(name string) error {
	return fmt.Errorf("%w: %q (must be Impact, Targeting, Product, Process)", ErrUnknownComponent, name)
}
