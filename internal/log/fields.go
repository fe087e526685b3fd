package log

// Common field names for structured logging.
const (
	FieldComponent  = "component"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldUserID     = "user_id"
	FieldProvider   = "provider"
	FieldEntryCount = "entry_count"
	FieldBackend    = "backend"
)

// Standard component names.
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentSession   = "session"
	ComponentDashboard = "dashboard"
	ComponentStorage   = "storage"
	ComponentEvents    = "events"
	ComponentCache     = "cache"
)

// Standard operation names.
const (
	OpSignIn   = "sign_in"
	OpSignOut  = "sign_out"
	OpRestore  = "restore"
	OpLoad     = "load"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
