// Package dberr specifically handles document store driver errors.
//
// It recognizes the failures each store backend can produce (repository
// sentinels, PostgreSQL SQLSTATE codes, gRPC status codes from Firestore)
// and converts them into user-friendly HTTP errors. Anything it does not
// recognize becomes a generic 500 so driver details never reach clients.
package dberr
