package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/mealpoints/internal/storage"
)

// toConnectError maps storage and validation failures onto Connect codes.
func toConnectError(err error) *connect.Error {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrAlreadyExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, storage.ErrInactiveMember):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
