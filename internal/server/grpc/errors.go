package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/lifelog/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// codeOf maps a service error onto a gRPC code. With mask set, records
// owned by someone else look exactly like missing ones.
func codeOf(err error, mask bool) codes.Code {
	switch {
	case err == nil:
		return codes.OK
	case errors.Is(err, common.ErrorForbidden):
		if mask {
			return codes.NotFound
		}
		return codes.PermissionDenied
	case errors.Is(err, common.ErrorNotFound):
		return codes.NotFound
	case errors.Is(err, common.ErrorInvalidState):
		return codes.FailedPrecondition
	case errors.Is(err, common.ErrorValidation):
		return codes.InvalidArgument
	case errors.Is(err, common.ErrorAlreadyExists):
		return codes.AlreadyExists
	case errors.Is(err, common.ErrorUnknownPrincipal),
		errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return codes.Unauthenticated
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	}
	return codes.Internal
}

// toStatus converts err for the wire. msg overrides the message; internal
// and masked errors never carry the underlying text.
func (s *GRPCServer) toStatus(err error, msg string) error {
	code := codeOf(err, s.maskForbidden)
	switch {
	case code == codes.Internal:
		msg = "internal error"
	case code == codes.NotFound && errors.Is(err, common.ErrorForbidden):
		msg = "not found"
	case msg == "":
		msg = err.Error()
	}
	return status.Error(code, msg)
}
