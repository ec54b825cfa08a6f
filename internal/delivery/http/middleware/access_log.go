package middleware

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const (
	HeaderRequestID    = "X-Request-ID"
	CtxRequestIDKey    = "request_id"
	anonymousUserLabel = "-"
)

type AccessLogMiddleware struct {
	logger *log.Logger
	skip   []string
}

// NewAccessLogMiddleware logs one line per request except for paths that
// start with one of skipPrefixes.
func NewAccessLogMiddleware(logger *log.Logger, skipPrefixes ...string) *AccessLogMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	return &AccessLogMiddleware{logger: logger, skip: skipPrefixes}
}

func (m *AccessLogMiddleware) skipped(path string) bool {
	for _, p := range m.skip {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get(HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(HeaderRequestID, rid)
		c.Locals(CtxRequestIDKey, rid)

		err := c.Next()

		if m.skipped(c.Path()) {
			return err
		}

		status := c.Response().StatusCode()
		if err != nil {
			// The error middleware runs outside this one; report what it will send.
			status, _, _ = normalizeError(err)
		}

		uid := anonymousUserLabel
		if id, ok := UserID(c); ok {
			uid = id.String()
		}

		m.logger.Printf(
			"HTTP access | rid=%s ip=%s method=%s path=%s status=%d latency=%s user_id=%s resp_bytes=%d ua=%q",
			rid, c.IP(), c.Method(), c.OriginalURL(), status, time.Since(start), uid,
			len(c.Response().Body()), c.Get("User-Agent"),
		)
		return err
	}
}
