package constants

// Route prefixes shared between the routers and the documentation handler.
const (
	APIRoute     = "/api"
	AdminRoute   = "/admin"
	UserRoute    = "/user"
	MetricsRoute = "/metrics"
	DocsRoute    = "/docs"
)
