package repository

// ErrNotFound is returned when a document or folder doesn't exist in the backend.
type ErrNotFound struct {
	ID string
}

func (e ErrNotFound) Error() string {
	if e.ID == "" {
		return "document not found"
	}

	return "document not found: " + e.ID
}

// ErrPermission is returned when the backend refuses access to a document.
type ErrPermission struct {
	ID string
}

func (e ErrPermission) Error() string {
	if e.ID == "" {
		return "permission denied"
	}

	return "permission denied: " + e.ID
}
