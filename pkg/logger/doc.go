// Package logger builds the *slog.Logger of a tenant-aware service.
//
// Records are enriched at log time with attributes pulled from the context,
// so a handler that logs with InfoContext(r.Context(), ...) automatically
// carries the tenant and request ids.
//
//	log := logger.New(
//		logger.WithConfig(cfg.Log),
//		logger.WithAttr(logger.Component("tenantd")),
//		logger.WithContextExtractors(
//			tenant.LoggerExtractor(),
//			requestid.LoggerExtractor(),
//		),
//	)
//
// Config reads LOG_LEVEL (debug, info, warn, error) and LOG_FORMAT (json, text).
package logger
