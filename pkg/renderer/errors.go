package renderer

import (
	"errors"
	"fmt"
)

var (
	ErrSceneNotDefined   = errors.New("renderer: no scene defined")
	ErrInvalidDimensions = errors.New("renderer: image width and height must be positive")
	ErrInvalidSamples    = errors.New("renderer: samples per pixel must be positive")
	ErrInvalidDepth      = errors.New("renderer: max depth must not be negative")
	ErrInvalidWorkers    = errors.New("renderer: worker count must not be negative")
	ErrUnknownSeedMode   = errors.New("renderer: unknown seed mode")
	ErrInterrupted       = errors.New("renderer: interrupted while rendering")
	ErrRowPanicked       = errors.New("renderer: row panicked")
)

// RowPanicError reports a panic raised while rendering a single row
type RowPanicError struct {
	Row   int
	Value interface{}
}

func (e *RowPanicError) Error() string {
	return fmt.Sprintf("renderer: row %d panicked: %v", e.Row, e.Value)
}

// Is lets errors.Is match RowPanicError against ErrRowPanicked
func (e *RowPanicError) Is(target error) bool {
	return target == ErrRowPanicked
}
