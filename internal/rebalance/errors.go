package rebalance

import "errors"

// ErrQuotaUnreachable is reported when an agent stays short because no
// adjacent chain of agents leads to spare cells.
var ErrQuotaUnreachable = errors.New("quota unreachable")
