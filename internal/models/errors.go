package models

import "errors"

// ErrRefreshActive reports that a refresh request was skipped because one
// is already in flight. Empty aggregates are represented as nil views, not
// errors, so this is the only sentinel the service layer needs.
var ErrRefreshActive = errors.New("refresh already in flight")
