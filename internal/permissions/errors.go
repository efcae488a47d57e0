package permissions

import (
	"errors"

	"github.com/meridian-hr/meridian-hr/internal/shared"
)

func isNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateOfficer)
}
