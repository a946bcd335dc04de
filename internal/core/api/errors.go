package api

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/solatis/chancekeeper/internal/types"
)

// toStatus maps service errors to gRPC status.
// Invalid names and context values map to INVALID_ARGUMENT.
// Unknown chances map to NOT_FOUND.
// Context timeouts map to DEADLINE_EXCEEDED.
// Store and decode failures map to UNAVAILABLE.
func toStatus(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, types.ErrInvalidChanceName), errors.Is(err, types.ErrCoercionFailed):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, types.ErrChanceNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Error(codes.Unavailable, err.Error())
	}
}
