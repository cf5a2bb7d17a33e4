// Package clientip resolves the originating client address of a request
// served behind reverse proxies.
//
// Resolve inspects the given proxy headers in order and falls back to the
// TCP peer address. Middleware stores the result in the request context and
// LoggerExtractor exposes it to the logger decorator:
//
//	r.Use(clientip.Middleware())
//	log := logger.New(logger.WithContextExtractors(clientip.LoggerExtractor()))
//
// Only list headers that your proxy overwrites; clients can set any of them.
package clientip
