package domain

import "errors"

var (
	// ErrInvalidOrder: the candidate was absent, had no product name, or
	// a non-positive quantity. A bare REJECTED row is still persisted.
	ErrInvalidOrder = errors.New("invalid order details")

	// ErrStockUpdateFailed: the reservation returned false after the
	// availability check had passed, so the order lost the race between
	// check and reserve.
	ErrStockUpdateFailed = errors.New("failed to update stock")

	// ErrInventoryUnavailable: the remote call to the inventory service
	// failed at the transport level.
	ErrInventoryUnavailable = errors.New("inventory service unavailable")
)
