package svc

import "errors"

// ErrUnknownStoreDriver is returned when config names a store driver
// this build does not support.
var ErrUnknownStoreDriver = errors.New("unknown store driver")

// ErrStorageInitFailed wraps failures while opening the storage tier.
var ErrStorageInitFailed = errors.New("storage initialization failed")
