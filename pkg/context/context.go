package context

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

const (
	RequestIDKey = "request_id"
	SessionIDKey = "session_id"

	// Fiber locals written by the middleware.
	RequestIDLocal = "X-Request-ID"
	SessionIDLocal = "X-Session-ID"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, SessionIDKey, sessionID)
}

func GetRequestID(ctx context.Context) string {
	requestID, ok := ctx.Value(RequestIDKey).(string)
	if !ok || requestID == "" {
		return "unknown"
	}
	return requestID
}

func GetSessionID(ctx context.Context) string {
	sessionID, ok := ctx.Value(SessionIDKey).(string)
	if !ok || sessionID == "" {
		return "unknown"
	}
	return sessionID
}

// FromFiberCtx builds a standard context carrying the request and session
// ids of the current fiber request.
func FromFiberCtx(c *fiber.Ctx) context.Context {
	ctx := context.Background()

	requestID, ok := c.Locals(RequestIDLocal).(string)
	if !ok || requestID == "" {
		requestID = c.Get(RequestIDLocal)
		if requestID == "" {
			requestID = "unknown"
		}
	}

	sessionID, ok := c.Locals(SessionIDLocal).(string)
	if !ok || sessionID == "" {
		sessionID = "unknown"
	}

	return WithSessionID(WithRequestID(ctx, requestID), sessionID)
}
