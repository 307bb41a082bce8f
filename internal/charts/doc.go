// Package charts renders the dashboard views as PNG or SVG images with
// gonum/plot. Every chart is a pure function of its analytics input; the
// Renderer only adds sizing, encoding and render metrics.
package charts
