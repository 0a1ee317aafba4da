package xhttp

import (
	"strings"
	"time"

	"github.com/OrtegaGeovanny/tiendex/pkg/logger"
	"github.com/valyala/fasthttp"
)

const (
	slowThreshold = 500 * time.Millisecond

	HeaderStoreID   = "X-Store-Id"
	HeaderRequestID = "X-Request-Id"

	storeIDKey = "store_id"
)

var skipPaths = []string{"/health", "/api/v1/health", "/metrics"}

type MiddlewareFunc func(next RequestHandler) RequestHandler
type RequestCtx = fasthttp.RequestCtx
type RequestHandler = fasthttp.RequestHandler

func TimeoutMiddleware(timeout time.Duration) MiddlewareFunc {
	return func(next RequestHandler) RequestHandler {
		return fasthttp.TimeoutWithCodeHandler(next, timeout, StatusText(StatusRequestTimeout), StatusRequestTimeout)
	}
}

func RecoverMiddleware(next RequestHandler) RequestHandler {
	return func(ctx *RequestCtx) {
		defer func() {
			if err := recover(); err != nil {
				writeStatus(ctx, StatusInternalServerError, "internal error")
				logger.Error("[xhttp] panic recovered", "error", err, "path", string(ctx.Path()))
			}
		}()
		next(ctx)
	}
}

// TenantMiddleware resolves the store the request acts on. The identity
// provider in front of the service puts the opaque store id in the
// X-Store-Id header; requests without it are refused.
func TenantMiddleware(next RequestHandler) RequestHandler {
	return func(ctx *RequestCtx) {
		if shouldSkip(string(ctx.Path())) {
			next(ctx)
			return
		}

		storeID := strings.TrimSpace(string(ctx.Request.Header.Peek(HeaderStoreID)))
		if storeID == "" || len(storeID) > 128 {
			writeStatus(ctx, StatusUnauthorized, "missing or invalid store id")
			return
		}
		ctx.SetUserValue(storeIDKey, storeID)
		next(ctx)
	}
}

// StoreID returns the tenant resolved by TenantMiddleware.
func StoreID(ctx *RequestCtx) string {
	v, _ := ctx.UserValue(storeIDKey).(string)
	return v
}

// WithStoreID is used by tests that call handlers without the middleware.
func WithStoreID(ctx *RequestCtx, storeID string) {
	ctx.SetUserValue(storeIDKey, storeID)
}

func RequestLoggerMiddleware(next RequestHandler) RequestHandler {
	return func(ctx *RequestCtx) {
		path := string(ctx.Path())
		if shouldSkip(path) {
			next(ctx)
			return
		}

		start := time.Now()
		next(ctx)
		latency := time.Since(start)
		status := ctx.Response.StatusCode()

		fields := []any{
			"status", status,
			"method", string(ctx.Method()),
			"path", path,
			"latency", latency.String(),
			"store_id", StoreID(ctx),
			"ip", ctx.RemoteIP().String(),
			"request_id", string(ctx.Request.Header.Peek(HeaderRequestID)),
		}

		switch {
		case status >= 500:
			logger.Error("http_request", fields...)
		case status >= 400 || latency > slowThreshold:
			logger.Warn("http_request", fields...)
		default:
			logger.Info("http_request", fields...)
		}
	}
}

func shouldSkip(p string) bool {
	for _, sp := range skipPaths {
		if strings.HasPrefix(p, sp) {
			return true
		}
	}
	return false
}
