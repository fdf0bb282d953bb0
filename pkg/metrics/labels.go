package metrics

// Status label values used by the store and search counters.
const (
	StatusOK    = "ok"
	StatusError = "error"
)
