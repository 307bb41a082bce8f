// Package dataset loads the S&P 500 ESG company table and provides the
// read-only Table type the analytics and presentation layers work on.
//
// A Table is immutable once built. Filter, Head, Take and SortBy return new
// tables; the canonical table held by a Loader is never modified, so it can
// be shared by concurrent requests without locking.
package dataset
