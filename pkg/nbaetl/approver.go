package nbaetl

import "context"

// Approver confirms destructive operations such as a FULL_REFRESH load or a
// schema rebuild.
type Approver interface {
	// RequestApproval asks for confirmation before every table of target is
	// dropped. It returns false without error when the user declines.
	RequestApproval(ctx context.Context, target string) (bool, error)
}
