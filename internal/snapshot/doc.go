// Package snapshot writes the static dashboard to a directory: an index.html
// page, one image per chart and CSV exports of the tabular views. The page is
// built once over the unfiltered dataset and has no widgets or scatter
// explorer.
package snapshot
