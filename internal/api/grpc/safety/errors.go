package safety

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	domain "github.com/oshokin/sos-button/internal/domain/safety"
	"github.com/oshokin/sos-button/internal/logger"
)

// toStatus maps a service error onto a gRPC status.
func toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrUserRequired):
		return status.Error(codes.Unauthenticated, domain.ErrUserRequired.Error())
	case errors.Is(err, domain.ErrInvalidLocation):
		return status.Error(codes.InvalidArgument, domain.ErrInvalidLocation.Error())
	case errors.Is(err, domain.ErrContactIncomplete):
		return status.Error(codes.InvalidArgument, domain.ErrContactIncomplete.Error())
	case errors.Is(err, domain.ErrContactLimit):
		return status.Error(codes.FailedPrecondition, domain.ErrContactLimit.Error())
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, domain.ErrNotFound.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		logger.ErrorKV(ctx, "Safety call failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}

// FromStatus converts a status returned by the server back into the domain error
// it was mapped from, so callers can use errors.Is on client results.
func FromStatus(err error) error {
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	var sentinel error

	switch st.Code() {
	case codes.Unauthenticated:
		sentinel = domain.ErrUserRequired
	case codes.InvalidArgument:
		switch st.Message() {
		case domain.ErrInvalidLocation.Error():
			sentinel = domain.ErrInvalidLocation
		case domain.ErrContactIncomplete.Error():
			sentinel = domain.ErrContactIncomplete
		}
	case codes.FailedPrecondition:
		sentinel = domain.ErrContactLimit
	case codes.NotFound:
		sentinel = domain.ErrNotFound
	default:
	}

	if sentinel == nil {
		return err
	}

	return fmt.Errorf("%w (%s)", sentinel, st.Code())
}
