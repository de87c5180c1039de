package core

import (
	"errors"
	"fmt"
	"strings"
)

// # Error Codes Reference
//
// A failed run prints a one-line hint with a code next to the technical
// error. Typed pipeline errors are matched first, then message patterns.
//
//	SRC001 - Unparseable source value       (*ParseError)
//	SRC002 - Required column missing        "missing column"
//	SRC003 - Empty source file              "empty file"
//	SRC004 - Source file not found          "no such file"
//	FMT001 - Price not numeric              (*FormatError)
//	JOIN001 - Ambiguous join key            (*JoinIntegrityError)
//	DB001 - Connection refused              "connection refused"
//	DB002 - Connection reset                "connection reset"
//	DB003 - Timeout                         "timeout", "deadline exceeded"
//	DB004 - Deadlock                        "deadlock"
//	DB005 - Access denied                   "access denied", "password authentication failed"
//	OUT001 - Character not representable    "rune not supported by encoding"
//	SINK001 - Sink write failed             (*SinkError, no better match)
//	ERR000 - Unexpected                     fallback

// UserMessage is the operator-facing description of a failure.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Stable reference for support
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	{
		pattern: "missing column",
		msg: UserMessage{
			Message: "A source file is missing a required column",
			Action:  "Check the header row against the expected column names",
			Code:    "SRC002",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "A source file is empty",
			Action:  "Re-export the table with its header row",
			Code:    "SRC003",
		},
	},
	{
		pattern: "no such file",
		msg: UserMessage{
			Message: "A source file was not found",
			Action:  "Check SOURCE_DIR and the SOURCE_* file names",
			Code:    "SRC004",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Check DATABASE_URL and that the server is running",
			Code:    "DB001",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Re-run; replace mode makes the load idempotent",
			Code:    "DB002",
		},
	},
	{
		pattern: "deadline exceeded",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Raise DB_TIMEOUT or try again later",
			Code:    "DB003",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Raise DB_TIMEOUT or try again later",
			Code:    "DB003",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB004",
		},
	},
	{
		pattern: "access denied",
		msg: UserMessage{
			Message: "Database rejected the credentials",
			Action:  "Check the user and password in DATABASE_URL",
			Code:    "DB005",
		},
	},
	{
		pattern: "password authentication failed",
		msg: UserMessage{
			Message: "Database rejected the credentials",
			Action:  "Check the user and password in DATABASE_URL",
			Code:    "DB005",
		},
	},
	{
		pattern: "rune not supported by encoding",
		msg: UserMessage{
			Message: "Output contains characters the output encoding cannot represent",
			Action:  "Set OUTPUT_ENCODING=utf-8",
			Code:    "OUT001",
		},
	},
}

var (
	parseMessage = UserMessage{
		Message: "A source value could not be read",
		Action:  "Fix the cell named in the error and re-run",
		Code:    "SRC001",
	}
	formatMessage = UserMessage{
		Message: "A price is not a number after removing currency symbols",
		Action:  "Fix the price cell named in the error",
		Code:    "FMT001",
	}
	joinMessage = UserMessage{
		Message: "A lookup key matched more than one row",
		Action:  "Remove duplicate keys or run without --strict",
		Code:    "JOIN001",
	}
	sinkMessage = UserMessage{
		Message: "An output could not be written",
		Action:  "Check the sink named in the error; other outputs were still attempted",
		Code:    "SINK001",
	}
)

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the log for the technical error",
	Code:    "ERR000",
}

// MapError converts a technical error to an operator-facing message.
// Pipeline error types win over message patterns, except that a sink error
// whose cause matches a pattern reports that cause.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var (
		parseErr  *ParseError
		formatErr *FormatError
		joinErr   *JoinIntegrityError
		sinkErr   *SinkError
	)
	switch {
	case errors.As(err, &parseErr):
		return parseMessage
	case errors.As(err, &formatErr):
		return formatMessage
	case errors.As(err, &joinErr):
		return joinMessage
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	if errors.As(err, &sinkErr) {
		return sinkMessage
	}
	return defaultMessage
}

// FormatUserError renders "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to something more specific than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
