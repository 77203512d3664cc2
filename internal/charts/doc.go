// Package charts renders the dashboard modes as self-contained SVG
// documents or one page PDFs, so they can be served over HTTP or written
// next to the tabular exports without a browser or native graphics
// library. Each chart is drawn once against a small canvas interface with
// an SVG and an fpdf backend.
//
// A chart with nothing to draw yields a placeholder image instead of an
// error; absent values are labelled "n/d".
package charts
