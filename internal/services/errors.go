package services

import "errors"

var (
	// ErrJobDescriptionRequired is returned when a run has no job description.
	ErrJobDescriptionRequired = errors.New("job description required")

	// ErrResumesRequired is returned when a run has no resumes.
	ErrResumesRequired = errors.New("at least one resume required")

	// ErrModelUnavailable is returned by embedding calls made while the model
	// failed to load.
	ErrModelUnavailable = errors.New("embedding model unavailable")

	// ErrEmptyEmbedding is returned when a backend answers with no vector.
	ErrEmptyEmbedding = errors.New("empty embedding result")

	// ErrDimensionMismatch is returned when a backend vector has the wrong size.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrUnsupportedFileType is returned for uploads other than PDF or text.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrFileTooLarge is returned for uploads above the configured limit.
	ErrFileTooLarge = errors.New("file too large")
)
