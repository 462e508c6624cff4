// Package fetch runs a single retrieval: it validates a [Config], builds a
// challenge-aware client, streams the resource to a file or stdout and
// classifies failures into process exit codes.
package fetch
