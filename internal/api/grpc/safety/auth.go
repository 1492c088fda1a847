package safety

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/oshokin/sos-button/internal/logger"
)

// UserIDHeader is the metadata key carrying the signed-in user.
const UserIDHeader = "x-user-id"

type userIDKey struct{}

// WithOutgoingUserID attaches userID to outgoing call metadata.
func WithOutgoingUserID(ctx context.Context, userID string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, UserIDHeader, userID)
}

// UserIDFromContext returns the user authenticated by UnaryUserInterceptor.
func UserIDFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(userIDKey{}).(string)

	return userID
}

// UnaryUserInterceptor rejects calls without a user id and stores it in the handler context.
func UnaryUserInterceptor(
	ctx context.Context,
	req any,
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (any, error) {
	var userID string

	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(UserIDHeader); len(values) > 0 {
			userID = strings.TrimSpace(values[0])
		}
	}

	if userID == "" {
		logger.WarnKV(ctx, "Rejected call without user id", "method", info.FullMethod)
		return nil, status.Error(codes.Unauthenticated, "user id is required")
	}

	ctx = context.WithValue(ctx, userIDKey{}, userID)
	ctx = logger.WithKV(ctx, "user_id", userID, "method", info.FullMethod)

	return handler(ctx, req)
}
