package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/smartfinance/internal/entity"
	"github.com/mmynk/smartfinance/internal/storage"
)

var (
	errUnknownCollection = errors.New("unknown collection")
	errConfirmRequired   = errors.New("wipe must be confirmed")
	errUnsafePost        = errors.New("post violates the community guidelines")
	errMissingID         = errors.New("id is required")
	errEmptyQuery        = errors.New("query is required")
	errInvalidPurchase   = errors.New("purchase needs a description and a positive amount")
	errEmptyTopic        = errors.New("topic is required")
)

// toConnectError maps entity and storage errors to Connect codes.
func toConnectError(err error) error {
	switch {
	case errors.Is(err, entity.ErrInvalidRecord), errors.Is(err, entity.ErrMissingID):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrDuplicateKey):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, storage.ErrUnknownCollection):
		return connect.NewError(connect.CodeInvalidArgument, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
