package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldKind         = "kind"
	FieldDetail       = "detail"
	FieldAmountCents  = "amount_cents"
	FieldBalanceCents = "balance_cents"
	FieldMoves        = "moves"
	FieldView         = "view"
	FieldAction       = "action"
	FieldBackend      = "backend"
	FieldStateKey     = "state_key"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentView    = "view"
	ComponentChart   = "chart"
	ComponentPDF     = "pdf"
	ComponentCache   = "cache"
	ComponentBackend = "backend"
)

// Operations defines standard operation names
const (
	OpDeposit  = "deposit"
	OpWithdraw = "withdraw"
	OpPay      = "pay_service"
	OpInquiry  = "inquiry"
	OpClear    = "clear_history"
	OpLoad     = "load"
	OpSave     = "save"
	OpRender   = "render"
	OpExport   = "export"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)

// LogFields provides a builder for structured log fields.
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds the component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithOperation adds the operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithError adds the error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithTransaction adds the fields of a ledger entry
func (f LogFields) WithTransaction(kind string, amountCents int64, detail string) LogFields {
	f[FieldKind] = kind
	f[FieldAmountCents] = amountCents
	if detail != "" {
		f[FieldDetail] = detail
	}
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
