package core

// error_messages.go maps technical errors to user-facing messages with a
// support code.
//
// Codes by category:
//
//	TBL001 - Still loading: the record set has not been fetched yet
//	TBL002 - Unknown column: the request named a column the table lacks
//	TBL003 - Read-only column: only the price column can be edited
//	TBL004 - Bad row position: the position is not a non-negative integer
//	VAL001 - Invalid number: the price is not a decimal number
//	SRC001 - Source unavailable: the remote record source failed
//	STO001 - Saved edits unreadable: the persisted snapshot is corrupt
//	STO002 - Storage unavailable: the edit store could not be reached
//	REQ001 - Request cancelled
//	REQ002 - Request timed out
//	ERR000 - Anything else; check the server log for the technical error
//
// Sentinel errors are matched with errors.Is first. Errors from outside
// this package (drivers, the HTTP client) are matched by message pattern,
// case-insensitively, first match wins.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

var (
	msgNotReady = UserMessage{
		Message: "The table is still loading from the source",
		Action:  "Wait a moment and reload the page",
		Code:    "TBL001",
	}
	msgUnknownField = UserMessage{
		Message: "Unknown column",
		Action:  "Use one of: name, label, price, description",
		Code:    "TBL002",
	}
	msgNotEditable = UserMessage{
		Message: "This column cannot be edited",
		Action:  "Only the price column is editable",
		Code:    "TBL003",
	}
	msgInvalidPosition = UserMessage{
		Message: "Invalid row position",
		Action:  "Positions are whole numbers starting at 0",
		Code:    "TBL004",
	}
	msgInvalidNumber = UserMessage{
		Message: "Invalid number",
		Action:  "Enter the price as a plain decimal number",
		Code:    "VAL001",
	}
	msgCorruptSnapshot = UserMessage{
		Message: "Saved edits could not be read",
		Action:  "Run `recipegrid snapshot clear` and restart the server to discard them",
		Code:    "STO001",
	}
)

type sentinelMessage struct {
	err error
	msg UserMessage
}

var sentinelMessages = []sentinelMessage{
	{ErrNotReady, msgNotReady},
	{ErrUnknownField, msgUnknownField},
	{ErrNotEditable, msgNotEditable},
	{ErrInvalidPosition, msgInvalidPosition},
	{ErrInvalidNumber, msgInvalidNumber},
	{ErrCorruptSnapshot, msgCorruptSnapshot},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns are checked in order after the sentinels.
// Specific patterns must come before general ones.
var errorPatterns = []errorPattern{
	{
		pattern: "source request failed",
		msg: UserMessage{
			Message: "The record source is unavailable",
			Action:  "Check SOURCE_URL and restart the server",
			Code:    "SRC001",
		},
	},
	{
		pattern: "source returned status",
		msg: UserMessage{
			Message: "The record source rejected the request",
			Action:  "Check SOURCE_URL and restart the server",
			Code:    "SRC001",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Edit storage is unavailable",
			Action:  "Please try again in a few moments",
			Code:    "STO002",
		},
	},
	{
		pattern: "database is locked",
		msg: UserMessage{
			Message: "Edit storage is busy",
			Action:  "Please try again",
			Code:    "STO002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again",
			Code:    "REQ002",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// A nil error maps to the zero UserMessage.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.err) {
			return sm.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display:
// "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
