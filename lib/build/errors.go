package build

import "errors"

var (
	// ErrDependencyCycle is returned when images depend on each other in a loop
	ErrDependencyCycle = errors.New("image dependency cycle")

	// ErrUnknownImage is returned when a requested image is not defined
	ErrUnknownImage = errors.New("unknown image")

	// ErrDuplicateImage is returned when two targets share a name
	ErrDuplicateImage = errors.New("duplicate image")
)
