package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// ============================================
// Standard Tracing Fields (Context level)
// These fields are propagated through the call chain
// ============================================

const (
	// FieldRequestID is the HTTP request ID (UUID)
	FieldRequestID = "request_id"

	// FieldJobID is the ingestion job ID
	FieldJobID = "job_id"

	// FieldProviderID is the MDM provider ID an ingestion runs against
	FieldProviderID = "provider_id"

	// FieldComponent is the component/module name
	FieldComponent = "component"

	// FieldStep is the pipeline step currently executing
	FieldStep = "step"
)

// ============================================
// Standard Metric Fields (Entry level)
// These fields are used for aggregation and alerting
// ============================================

const (
	// FieldDurationMs is the execution duration in milliseconds
	FieldDurationMs = "duration_ms"

	// FieldCount is a generic count field
	FieldCount = "count"

	// FieldSize is the data size in bytes
	FieldSize = "size"

	// FieldStatus is the operation status
	FieldStatus = "status"
)

// RequestIDHeader carries FieldRequestID across HTTP hops between the services.
const RequestIDHeader = "X-Request-ID"
