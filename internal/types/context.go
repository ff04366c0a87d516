package types

import (
	"context"
	"fmt"
)

// ContextKey is a type for the keys of values stored in the context
type ContextKey string

const (
	CtxRequestID     ContextKey = "ctx_request_id"
	CtxAcademyID     ContextKey = "ctx_academy_id"
	CtxUserID        ContextKey = "ctx_user_id"
	CtxDBTransaction ContextKey = "ctx_db_transaction"

	// HeaderRequestID is the response header carrying the request id
	HeaderRequestID = "X-Request-ID"
	// HeaderAcademyID and HeaderUserID identify the acting academy and
	// staff member on incoming requests
	HeaderAcademyID = "X-Academy-ID"
	HeaderUserID    = "X-User-ID"

	// Default values
	DefaultAcademyID = "00000000-0000-0000-0000-000000000000"
	DefaultUserID    = "00000000-0000-0000-0000-000000000000"
)

func GetUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(CtxUserID).(string); ok {
		return userID
	}
	return ""
}

func GetAcademyID(ctx context.Context) string {
	if academyID, ok := ctx.Value(CtxAcademyID).(string); ok {
		return academyID
	}
	return ""
}

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(CtxRequestID).(string); ok {
		return requestID
	}
	return ""
}

// SetAcademyID sets the academy ID in the context
func SetAcademyID(ctx context.Context, academyID string) context.Context {
	return context.WithValue(ctx, CtxAcademyID, academyID)
}

// SetUserID sets the user ID in the context
func SetUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, CtxUserID, userID)
}

// ValidateAcademyContext validates that the required academy context fields are present
func ValidateAcademyContext(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("context is nil")
	}

	academyID := GetAcademyID(ctx)
	if academyID == "" {
		return fmt.Errorf("no academy context found in context")
	}

	return nil
}
