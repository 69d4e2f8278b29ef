// Package store defines the persistence interfaces of the application and
// the error taxonomy shared by their implementations. Concrete
// implementations live under internal/platform.
package store
