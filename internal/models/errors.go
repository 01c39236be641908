package models

import "errors"

var (
	ErrEmptyReason      = errors.New("a report needs a non-empty reason")
	ErrBadTargetType    = errors.New("this kind of content can't be reported")
	ErrDuplicateReport  = errors.New("you already reported this content")
	ErrNotFound         = errors.New("not found")
	ErrPermDenied       = errors.New("not enough permissions to execute this action")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrEmailAlreadyUsed = errors.New("the email is already used")
	ErrWeakPasswd       = errors.New("weak password")
	ErrBanned           = errors.New("this account is banned")
)
