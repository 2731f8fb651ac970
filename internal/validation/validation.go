// Package validation binds and validates request data.
//
// It uses the `validator` library to enforce rules defined in struct tags
// and converts failures into field errors the client can understand.
package validation
