// Package httpserver runs the HTTP side of a service with graceful shutdown
// and health probes.
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//
//	srv := httpserver.New(cfg.HTTP, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server failed", "error", err)
//	}
//
// Run returns once in-flight requests have drained or ShutdownTimeout expired.
package httpserver
