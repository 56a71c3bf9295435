// Copyright (c) 2025 The Roost developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reverts carries operation refusals out of the vault.
// A revert aborts the whole operation but is not a state access failure,
// hosts map reverts to client errors and everything else to server faults.
package reverts

import (
	"errors"
)

// Kind enumerates the refusal reasons.
type Kind uint8

const (
	KindNotOwner Kind = iota + 1
	KindAlreadyStaked
	KindLockNotExpired
	KindNothingToClaim
	KindInvalidConfiguration
)

// ErrRevert is an operation refusal carrying its reason kind,
// so callers never have to match message strings.
type ErrRevert struct {
	kind    Kind
	message string
}

func New(kind Kind, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

func (e *ErrRevert) Kind() Kind {
	return e.kind
}

func NotOwner(message string) *ErrRevert {
	return New(KindNotOwner, message)
}

func AlreadyStaked(message string) *ErrRevert {
	return New(KindAlreadyStaked, message)
}

func LockNotExpired(message string) *ErrRevert {
	return New(KindLockNotExpired, message)
}

func NothingToClaim(message string) *ErrRevert {
	return New(KindNothingToClaim, message)
}

func InvalidConfiguration(message string) *ErrRevert {
	return New(KindInvalidConfiguration, message)
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

func is(err error, kind Kind) bool {
	var ve *ErrRevert
	return errors.As(err, &ve) && ve.kind == kind
}

func IsNotOwner(err error) bool {
	return is(err, KindNotOwner)
}

func IsAlreadyStaked(err error) bool {
	return is(err, KindAlreadyStaked)
}

func IsLockNotExpired(err error) bool {
	return is(err, KindLockNotExpired)
}

func IsNothingToClaim(err error) bool {
	return is(err, KindNothingToClaim)
}

func IsInvalidConfiguration(err error) bool {
	return is(err, KindInvalidConfiguration)
}
