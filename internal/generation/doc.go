// Package generation defines the content generation boundary: the pipeline
// interface implemented by external content producers, the orchestrator
// that runs a pipeline strategy and filters its candidates, and the
// deduplication guard that keeps the term catalog free of duplicates.
package generation
