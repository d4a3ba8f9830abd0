package network

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
)

// validate is a singleton validator instance
var validate = validator.New(validator.WithRequiredStructEnabled())

// Normalize orders computers by id
func (d *Document) Normalize() {
	slices.SortStableFunc(d.Computers, func(a, b Computer) int {
		return a.ID - b.ID
	})
}

// Validate checks field constraints and cross references. Computers must be
// ordered with ids 0..N-1 and every connection must join known computers.
func (d *Document) Validate() error {
	if d == nil {
		return errors.New("network document cannot be nil")
	}

	if err := validate.Struct(d); err != nil {
		return formatValidationError(err)
	}

	names := make(map[string]int, len(d.Computers))
	for i, c := range d.Computers {
		if c.ID != i {
			return fmt.Errorf("computers[%d]: id %d, ids must run 0..%d without gaps", i, c.ID, len(d.Computers)-1)
		}
		if c.Name == "" {
			continue
		}
		if prev, dup := names[c.Name]; dup {
			return fmt.Errorf("computers[%d]: name %q already used by computer %d", i, c.Name, prev)
		}
		names[c.Name] = c.ID
	}

	n := len(d.Computers)
	for i, c := range d.Connections {
		if c.A >= n || c.B >= n {
			return fmt.Errorf("connections[%d]: joins %d and %d, have %d computers", i, c.A, c.B, n)
		}
	}

	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Report the first violation
	for _, e := range validationErrs {
		field := e.Namespace()
		switch e.Tag() {
		case "gte":
			return fmt.Errorf("%s: must be at least %s, got %v", field, e.Param(), e.Value())
		case "max":
			return fmt.Errorf("%s: must not exceed %s characters", field, e.Param())
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}

	return err
}
