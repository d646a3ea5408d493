package models

import (
	"fmt"

	"github.com/VictoryTek/humidor-sub001/internal/common"
)

// PermissionLevel is the effective access tier a user holds on a humidor.
type PermissionLevel string

const (
	// PermissionNone means no access at all.
	PermissionNone PermissionLevel = ""
	// PermissionView allows read-only access.
	PermissionView PermissionLevel = "view"
	// PermissionEdit allows adding and updating cigars, but not deleting.
	PermissionEdit PermissionLevel = "edit"
	// PermissionFull allows add, update and delete. Share management and
	// humidor deletion remain owner-exclusive even at this tier.
	PermissionFull PermissionLevel = "full"
)

// ParsePermissionLevel validates a wire value.
func ParsePermissionLevel(s string) (PermissionLevel, error) {
	switch PermissionLevel(s) {
	case PermissionView, PermissionEdit, PermissionFull:
		return PermissionLevel(s), nil
	default:
		return PermissionNone, fmt.Errorf("%w: invalid permission level %q", common.ErrorInvalidArgument, s)
	}
}

// CanView reports whether the tier allows reading the humidor and its cigars.
func (p PermissionLevel) CanView() bool {
	return p == PermissionView || p == PermissionEdit || p == PermissionFull
}

// CanEdit reports whether the tier allows adding and updating cigars.
func (p PermissionLevel) CanEdit() bool {
	return p == PermissionEdit || p == PermissionFull
}

// CanManage reports whether the tier allows deleting cigars.
func (p PermissionLevel) CanManage() bool {
	return p == PermissionFull
}
