// Package app wires the ESG risk dashboard together: configuration, logging,
// OpenTelemetry, the dataset loader, the dashboard services and the chi
// router, plus graceful startup and shutdown of the HTTP server.
//
// # Initialization Flow
//
//	1. Load configuration (config.Load) and initialize the logger
//	2. Initialize OpenTelemetry providers and dashboard metrics
//	3. Resolve dataset candidates and create the memoized loader
//	4. Create the dashboard, chart, export and health services
//	5. Set up middleware and routes
//	6. Start the HTTP server and warm the dataset
//
// # Usage
//
//	app, err := app.NewApplication(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	return app.Run()
//
// # Graceful Shutdown
//
// Run waits for SIGINT or SIGTERM, then drains in-flight requests within
// Server.ShutdownTimeout and flushes the OpenTelemetry providers. The
// package never calls os.Exit; the caller decides the exit code.
package app
