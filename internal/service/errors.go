package service

import "errors"

var (
	// ErrNotApprover is returned when a non-approver attempts an
	// approve/reject decision. No state is mutated.
	ErrNotApprover = errors.New("only approvers may approve or reject")

	// ErrTerminalStatus is returned when an edit tries to set an asset
	// to Sold or Disposed directly. Those statuses are reachable only
	// through an approved sales/disposal transaction.
	ErrTerminalStatus = errors.New("Sold and Disposed are set through transaction approval, not by edit")
)
