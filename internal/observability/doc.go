// Package observability builds the structured zap logger shared by the
// server, the auth gates and the request logging middleware.
package observability
