// Package services implements the dashboard pipeline between the HTTP
// handlers and the dataset and analytics packages.
//
// # Pipeline
//
// Every interaction runs the same linear pipeline on the memoized table:
//
//	load -> resolve widgets -> filter sectors -> derive views
//
// Views that cannot be built from the available columns are skipped and
// explained by a Message instead of failing the request.
//
// # Error Handling
//
// Services return sentinel errors that handlers map to problem responses:
//
//	- ErrNoDataset when no candidate path produced a table
//	- ErrUnknownView for view names the dashboard does not serve
//	- ErrViewSkipped when a requested view could not be built
//
// # Testing
//
// Handlers depend on the DashboardProvider interface so they can be tested
// with a testify mock.
package services
