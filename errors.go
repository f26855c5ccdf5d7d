package dlaf

import "fmt"

// ErrInvalidParameter indicates a model parameter outside its allowed range.
type ErrInvalidParameter struct {
	Name  string
	Value float64
}

func (e *ErrInvalidParameter) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Name, e.Value)
}

// ErrInvalidDimension indicates a dimension other than 2 or 3.
type ErrInvalidDimension struct {
	Dimension int
}

func (e *ErrInvalidDimension) Error() string {
	return fmt.Sprintf("invalid dimension: %d (must be 2 or 3)", e.Dimension)
}
