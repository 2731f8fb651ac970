// Package errs defines the error shapes returned to API clients.
//
// Every non-2xx JSON body produced by the gateway is an HTTPError, so
// clients can rely on one schema regardless of which layer failed:
// routing, CORS, binding, or the document store.
package errs
