// Package ownership holds the single place where a record's owner is
// compared with the requesting user.
package ownership

import (
	"fmt"

	"github.com/dmitrijs2005/lifelog/internal/common"
)

// Owned is anything that carries an owner id.
type Owned interface {
	Owner() string
}

// Authorize returns rec unchanged when requester owns it and
// common.ErrorForbidden otherwise. A record with no owner is never
// accessible. The record must already have been found; callers report a
// missing record as not found before getting here.
func Authorize[T Owned](rec T, requester string) (T, error) {
	owner := rec.Owner()
	if owner == "" || requester == "" || owner != requester {
		var zero T
		return zero, fmt.Errorf("%w: record belongs to another user", common.ErrorForbidden)
	}
	return rec, nil
}
