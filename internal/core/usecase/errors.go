package usecase

import "txwatch/internal/core/repository"

// Storage sentinels re-exported so the transport layer can match them
// without depending on the repository package.
var (
	ErrNotFound    = repository.ErrNotFound
	ErrDuplicateID = repository.ErrDuplicateID
)
