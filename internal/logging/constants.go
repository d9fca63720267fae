package logging

// Standardized field names for structured logging.
const (
	FieldFile      = "file_path"
	FieldBank      = "bank"
	FieldAccount   = "account_id"
	FieldUser      = "user_id"
	FieldBatch     = "batch_id"
	FieldCategory  = "category"
	FieldCurrency  = "currency"
	FieldReason    = "reason"
	FieldOperation = "operation"
	FieldJob       = "job"
	FieldStatus    = "status"
	FieldError     = "error"
	FieldDuration  = "duration_ms"
	FieldCount     = "count"
	FieldSkipped   = "skipped"
	FieldDelimiter = "delimiter"
)
