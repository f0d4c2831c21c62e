// Package observability provides OpenTelemetry metrics and tracing for the Network Brain API.
package observability

import (
	"github.com/networkbrain/brain/internal/datatypes"
)

// Metric names (Prometheus / OpenTelemetry).
const (
	MetricNameEventsPublished   = "brain_person_events_published_total"
	MetricNameEventsDiscarded   = "brain_person_events_discarded_total"
	MetricNameFanOutDuration    = "brain_person_event_fan_out_duration_seconds"
	MetricNameEventChannelDepth = "brain_person_event_channel_depth"

	MetricNameEmbeddingQueueDepth    = "brain_embedding_queue_depth"
	MetricNameEmbeddingJobsEnqueued  = "brain_embedding_jobs_enqueued_total"
	MetricNameEmbeddingEnqueueErrors = "brain_embedding_enqueue_errors_total"
	MetricNameEmbeddingOutcomes      = "brain_embeddings_total"
	MetricNameEmbeddingWorkerErrors  = "brain_embedding_worker_errors_total"
	MetricNameEmbeddingDuration      = "brain_embedding_duration_seconds"
	MetricNameEmbeddingBatchItems    = "brain_embedding_batch_items_total"

	MetricNameEnrichments          = "brain_enrichments_total"
	MetricNameEnrichmentDuration   = "brain_enrichment_duration_seconds"
	MetricNameEnrichmentLookups    = "brain_enrichment_provider_lookups_total"
	MetricNameIntroductionsCreated = "brain_introductions_created_total"
	MetricNameIntroductionRuns     = "brain_introduction_runs_total"

	MetricNameApplicationsReceived = "brain_applications_received_total"

	MetricNameCacheLookups        = "brain_cache_lookups_total"
	MetricNameCacheInvalidations  = "brain_cache_invalidations_total"
	MetricNameRequestBodyTooLarge = "brain_request_body_too_large_total"

	MetricNameHTTPRequests        = "brain_http_requests_total"
	MetricNameHTTPRequestDuration = "brain_http_request_duration_seconds"
)

// Attribute keys.
const (
	AttrEventType = "event_type"
	AttrReason    = "reason"
	AttrStatus    = "status"
	AttrMode      = "mode"
	AttrCache     = "cache"
	AttrResult    = "result"
)

// AllowedEmbeddingWorkerReason for brain_embedding_worker_errors_total.
var AllowedEmbeddingWorkerReason = map[string]bool{
	"get_person_failed":    true,
	"embedding_failed":     true,
	"store_failed":         true,
	"person_not_found":     true,
	"empty_embedding_text": true,
	"panic":                true,
}

// AllowedEnrichmentOutcomes for brain_enrichments_total.
var AllowedEnrichmentOutcomes = map[string]bool{
	"success":          true,
	"validation_error": true,
	"llm_error":        true,
	"store_error":      true,
}

// AllowedLookupOutcomes for brain_enrichment_provider_lookups_total.
var AllowedLookupOutcomes = map[string]bool{
	"found":     true,
	"not_found": true,
	"error":     true,
}

// AllowedApplicationOutcomes for brain_applications_received_total.
var AllowedApplicationOutcomes = map[string]bool{
	"accepted":          true,
	"invalid_signature": true,
	"invalid_payload":   true,
	"store_error":       true,
}

// AllowedCacheNames bounds the "cache" attribute.
var AllowedCacheNames = map[string]bool{
	"system_prompt": true,
}

// AllowedEmbeddingOutcomeStatus reports whether status is a known embedding outcome.
func AllowedEmbeddingOutcomeStatus(status string) bool {
	switch status {
	case "success", "failed", "skipped":
		return true
	default:
		return false
	}
}

// NormalizeEventType returns eventType if allowed, otherwise "unknown".
func NormalizeEventType(eventType string) string {
	if datatypes.IsValidEventType(eventType) {
		return eventType
	}

	return "unknown"
}

// NormalizeReason returns reason if in allowed, otherwise "other".
func NormalizeReason(reason string, allowed map[string]bool) string {
	if allowed[reason] {
		return reason
	}

	return "other"
}

// NormalizeCacheName returns name if it is a known cache, otherwise "other".
func NormalizeCacheName(name string) string {
	return NormalizeReason(name, AllowedCacheNames)
}

// NormalizeMode bounds the enrichment mode attribute.
func NormalizeMode(mode string) string {
	switch mode {
	case "profile", "timeline", "application":
		return mode
	default:
		return "other"
	}
}
