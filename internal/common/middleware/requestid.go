package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderMapID     = "X-Map-ID"
)

// RequestID propagates the caller's X-Request-ID or assigns a new uuid.
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:    HeaderRequestID,
		Generator: uuid.NewString,
	})
}

// GetRequestID returns the id assigned by RequestID, or "".
func GetRequestID(c fiber.Ctx) string {
	return requestid.FromContext(c)
}
