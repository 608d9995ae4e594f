package returns

import "errors"

var (
	ErrReturnNotFound = errors.New("return not found")
	ErrOrderNotFound  = errors.New("order not found for return")
	ErrNotPending     = errors.New("return is not pending")
	ErrNotApproved    = errors.New("return is not approved")
)
