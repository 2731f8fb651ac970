// Package model describes the four document collections served by the
// gateway and the schema-less documents they hold.
//
// Documents have no fixed shape. The only fields the gateway knows about
// are the system-managed ones declared on each Collection: the timestamp
// the store stamps at creation (also the list sort key) and, for
// certificate requests, the initial status.
package model
