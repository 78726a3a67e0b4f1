// Package normalisers holds parsers that turn raw input files into
// domain types. The transcript subpackage parses course transcript
// files into courses, lessons and text segments.
package normalisers
