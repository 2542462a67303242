package logger

// Standard field names for structured logging.
// Use these constants instead of raw strings.
const (
	// Identity
	FieldJobID     = "job_id"
	FieldComponent = "component"
	FieldPreset    = "preset"

	// Generation
	FieldLength    = "length"
	FieldCharset   = "charset"
	FieldCharsetSz = "charset_size"
	FieldMode      = "mode"
	FieldIndex     = "index"
	FieldToken     = "token"
	FieldShard     = "shard"
	FieldWorkers   = "workers"

	// Counts and sizes
	FieldCount      = "count"
	FieldTotalCount = "total_count"
	FieldBytes      = "bytes"

	// Status
	FieldStatus = "status"

	// Files and sinks
	FieldFile        = "file"
	FieldCompression = "compression"
	FieldFormat      = "format"
	FieldAddress     = "address"
	FieldProxy       = "proxy"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError     = "error"
	FieldErrorType = "error_type"
)
