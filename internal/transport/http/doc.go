// Package http implements the HTTP handlers of the ESG risk dashboard. It is
// a thin layer over the services package: handlers parse widget query
// parameters, call the dashboard service and render the result as an HTML
// page, a JSON document, a chart image or a downloadable table.
//
// # Routes
//
//	GET  /                              interactive dashboard page
//	GET  /static-view                   static snapshot page
//	GET  /charts/{name}.{format}        chart image for the current widgets
//	GET  /static-view/charts/{name}.{format}
//	GET  /api/dashboard                 all views as JSON
//	GET  /api/views/{view}              one view as JSON
//	GET  /api/dataset                   loaded table and loader diagnostics
//	POST /api/dataset/reload            drop the memoized table and load again
//	GET  /api/export/{view}.{format}    csv or xlsx download
//	GET  /api/health, /api/health/ready, /api/health/live, /api/version
//
// # Widgets
//
// Widget values arrive as query parameters (sector, filter, metric, sort_by,
// top_n, ascending, x, y, color). A value that fails validation is dropped
// and reported as a warning message; the page is still rendered with the
// default in its place.
//
// # Errors
//
// Failures are rendered as RFC 7807 problem details through
// errors.ErrorHandler. Service errors are mapped to API errors in one place
// (apiError) so every handler reports them the same way.
package http
