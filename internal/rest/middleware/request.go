package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kivee/kivee/internal/types"
)

func RequestIDMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	requestID := c.GetHeader(types.HeaderRequestID)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	ctx = context.WithValue(ctx, types.CtxRequestID, requestID)
	c.Request = c.Request.WithContext(ctx)

	c.Header(types.HeaderRequestID, requestID)

	c.Next()
}

// AcademyMiddleware resolves the acting academy and user for the request.
// Absent headers fall back to the default academy so single-academy
// deployments work without any header plumbing.
func AcademyMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	academyID := c.GetHeader(types.HeaderAcademyID)
	if academyID == "" {
		academyID = types.DefaultAcademyID
	}
	ctx = types.SetAcademyID(ctx, academyID)

	if userID := c.GetHeader(types.HeaderUserID); userID != "" {
		ctx = types.SetUserID(ctx, userID)
	}

	c.Request = c.Request.WithContext(ctx)
	c.Next()
}
