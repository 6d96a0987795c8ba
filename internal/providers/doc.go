// Package providers defines the gateway contract between the pipeline
// and the external AI/data services it delegates to: one method per
// capability, typed request/result payloads, and a typed error carrying
// a retryable classification. The orchestrator never retries; adapters
// may retry internally before surfacing an Error.
package providers
