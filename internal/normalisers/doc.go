// Package normalisers holds the text converters used by the export
// pipeline. Each implements driven.Converter for one input format.
package normalisers
