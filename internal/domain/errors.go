package domain

import "errors"

var (
	// ErrSupplierNotFound is returned when a supplier id does not exist in the catalog
	ErrSupplierNotFound = errors.New("supplier not found")

	// ErrMeshNotFound is returned when a mesh id does not exist in the catalog
	ErrMeshNotFound = errors.New("mesh not found")

	// ErrDuplicateCode is returned when a supplier already has a mesh with the same code
	ErrDuplicateCode = errors.New("mesh code already exists for supplier")

	// ErrSupplierInUse is returned when deleting a supplier that still owns meshes
	// under the block orphan policy
	ErrSupplierInUse = errors.New("supplier still referenced by meshes")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrInvalidCriterion is returned for an unknown comparison criterion
	ErrInvalidCriterion = errors.New("invalid comparison criterion")

	// ErrExtractionFailure is the single terminal error of an extraction call
	ErrExtractionFailure = errors.New("extraction failed")

	// ErrExtractionTimeout is returned when an extraction exceeds its bounded wait
	ErrExtractionTimeout = errors.New("extraction timed out")

	// ErrStaleExtraction is returned when a newer extraction started before this one finished
	ErrStaleExtraction = errors.New("extraction superseded by a newer request")

	// ErrUnsupportedFile is returned when a file type cannot be read by any producer
	ErrUnsupportedFile = errors.New("unsupported file type")
)
