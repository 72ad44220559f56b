package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldWorkspace = "workspace"
	FieldCategory  = "category"
	FieldMonth     = "month"
	FieldBackend   = "backend"
	FieldDuration  = "duration_ms"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldAlertKind = "alert_kind"
	FieldAmount    = "amount"
	FieldCount     = "count"
	FieldSheetsRef = "sheets_ref"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentReports = "reports"
	ComponentSource  = "source"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentExport  = "export"
	ComponentCache   = "cache"
	ComponentBackend = "backend"
)

// Operations defines standard operation names
const (
	OpAnalyze  = "analyze"
	OpPublish  = "publish"
	OpExport   = "export"
	OpValidate = "validate"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithWorkspace adds the workspace field, the name where known or the
// id otherwise.
func (f LogFields) WithWorkspace(workspace string) LogFields {
	f[FieldWorkspace] = workspace
	return f
}

// WithMonth adds month field
func (f LogFields) WithMonth(month string) LogFields {
	f[FieldMonth] = month
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithAlert adds alert-related fields
func (f LogFields) WithAlert(kind, category, amount string) LogFields {
	f[FieldAlertKind] = kind
	f[FieldCategory] = category
	f[FieldAmount] = amount
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
