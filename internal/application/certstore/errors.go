package certstore

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound           = errors.New("certificate not found")
	ErrDuplicateID        = errors.New("certificate id already exists")
	ErrStorageUnavailable = errors.New("certificate storage unavailable")
)

// DuplicateIDError lists the ids that collided with stored (or sibling) records.
// IDs is empty when the database rejected the write without saying which row clashed.
type DuplicateIDError struct {
	IDs []string
}

func (e *DuplicateIDError) Error() string {
	if len(e.IDs) == 0 {
		return ErrDuplicateID.Error()
	}
	return fmt.Sprintf("%s: %s", ErrDuplicateID.Error(), strings.Join(e.IDs, ", "))
}

func (e *DuplicateIDError) Is(target error) bool {
	return target == ErrDuplicateID
}
