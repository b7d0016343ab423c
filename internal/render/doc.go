// Package render draws packed bubble layouts as SVG or PNG and chat statistics as bar charts.
package render
