package http

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/AlibekovAA/ocr-notes/internal/common/httpmetrics"
	"github.com/AlibekovAA/ocr-notes/internal/common/logger"
)

// BuildBaseHandler wraps handler with the middleware chain every route shares.
// maxRequestSize must cover the largest multipart upload the service accepts.
func BuildBaseHandler(appName string, log *logger.Logger, maxRequestSize int64, handler http.Handler) http.Handler {
	collector := httpmetrics.New(appName)
	recovery := RecoveryMiddleware(log)
	traceID := TraceIDMiddleware
	maxSize := MaxRequestSizeMiddleware(maxRequestSize)
	securityHeaders := SecurityHeadersMiddleware
	csp := ContentSecurityPolicyMiddleware("")

	chain := securityHeaders(csp(recovery(traceID(maxSize(collector.Wrap(handler))))))

	return otelhttp.NewHandler(chain, appName,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + httpmetrics.NormalizePath(r.URL.Path)
		}),
	)
}
