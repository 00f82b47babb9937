package server

import (
	"errors"
	"fmt"
)

// Bind failure classes. Use errors.Is against a *BindError.
var (
	ErrAddrInUse  = errors.New("address already in use")
	ErrPermission = errors.New("permission denied")
)

// BindError reports a failure to bind the listening socket. It is fatal:
// the server never retries or falls back to another port.
type BindError struct {
	Addr string
	Err  error
}

func (e *BindError) Error() string {
	switch {
	case isAddrInUse(e.Err):
		return fmt.Sprintf("bind %s: %v (is another instance running?)", e.Addr, ErrAddrInUse)
	case isPermission(e.Err):
		return fmt.Sprintf("bind %s: %v", e.Addr, ErrPermission)
	default:
		return fmt.Sprintf("bind %s: %v", e.Addr, e.Err)
	}
}

func (e *BindError) Unwrap() error { return e.Err }

// Is matches the ErrAddrInUse and ErrPermission classes.
func (e *BindError) Is(target error) bool {
	switch target {
	case ErrAddrInUse:
		return isAddrInUse(e.Err)
	case ErrPermission:
		return isPermission(e.Err)
	}
	return false
}
