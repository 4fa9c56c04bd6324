package repository

import "errors"

// ErrTransient wraps storage failures that are worth retrying: write
// contention, deadlocks, dropped connections. Implementations tag such
// errors so callers can distinguish them from policy failures.
var ErrTransient = errors.New("transient storage error")
