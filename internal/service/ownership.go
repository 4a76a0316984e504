package service

import (
	"github.com/google/uuid"

	apperrors "inkwell/internal/errors"
)

// checkOwnership permits a mutation only when the resource's owner reference
// equals the acting user. A nil owner reference fails closed: a record that
// lost its author must never become mutable by everyone.
func checkOwnership(owner *uuid.UUID, userID uuid.UUID) error {
	if owner == nil || *owner != userID {
		return apperrors.ErrForbidden
	}
	return nil
}
