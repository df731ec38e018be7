package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-ID"

type AccessLogMiddleware struct {
	logger *log.Logger
}

func NewAccessLogMiddleware(logger *log.Logger) *AccessLogMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	return &AccessLogMiddleware{logger: logger}
}

func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get(HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(HeaderRequestID, rid)

		err := c.Next()

		// The error middleware sits inside this one, so the status is final here.
		userID := "-"
		if id, ok := c.Locals(CtxUserIDKey).(uuid.UUID); ok {
			userID = id.String()
		}

		m.logger.Printf(
			"http=access rid=%s method=%s path=%s status=%d latency=%s ip=%s user_id=%s resp_bytes=%d",
			rid, c.Method(), c.OriginalURL(), c.Response().StatusCode(), time.Since(start), c.IP(), userID, len(c.Response().Body()),
		)

		return err
	}
}
