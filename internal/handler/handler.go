// Package handler is the HTTP layer, the first entry point after the router.
//
// It binds and validates requests through the validation package, calls
// the service layer, and writes the JSON response. Errors are returned
// unchanged so the global error handler can shape them.
package handler
