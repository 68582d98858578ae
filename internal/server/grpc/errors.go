package grpc

import (
	"errors"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps the service error taxonomy onto gRPC codes. Messages are the
// sentinel texts only; wrapped internal detail is dropped.
func toStatus(err error) error {
	switch {
	case errors.Is(err, common.ErrDuplicateUsername):
		return status.Error(codes.AlreadyExists, common.ErrDuplicateUsername.Error())
	case errors.Is(err, common.ErrDuplicateEmail):
		return status.Error(codes.AlreadyExists, common.ErrDuplicateEmail.Error())
	case errors.Is(err, common.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrUnauthenticated):
		return status.Error(codes.Unauthenticated, common.ErrUnauthenticated.Error())
	case errors.Is(err, common.ErrInvalidCredential):
		return status.Error(codes.Unauthenticated, common.ErrInvalidCredential.Error())
	case errors.Is(err, common.ErrInactive):
		return status.Error(codes.FailedPrecondition, common.ErrInactive.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
