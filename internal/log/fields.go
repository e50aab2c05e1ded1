package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRunID       = "run_id"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldSheet       = "sheet"
	FieldRow         = "row"
	FieldAccount     = "account"
	FieldCategory    = "category"
	FieldParty       = "party"
	FieldAmount      = "amount"
	FieldRef         = "ref"
	FieldOutcome     = "outcome"
	FieldPath        = "path"
	FieldLayout      = "layout"
	FieldDurationMs  = "duration_ms"
	FieldTransaction = "transaction_id"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentImporter = "importer"
	ComponentReporter = "reporter"
	ComponentStorage  = "storage"
	ComponentAMQP     = "amqp"
	ComponentBackend  = "backend"
)

// Operations defines standard operation names
const (
	OpImport    = "import"
	OpAggregate = "aggregate"
	OpRender    = "render"
	OpStartup   = "startup"
)
