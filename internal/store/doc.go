// Package store defines the persistence interfaces of the application and
// the sentinel errors shared by their implementations. Concrete stores live
// in internal/platform; services and handlers depend only on this package.
package store
