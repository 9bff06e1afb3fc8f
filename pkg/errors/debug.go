package errors

import "errors"

// ErrorDump captures the unwrapped chain of an error for structured logging.
type ErrorDump struct {
	TopMessage string
	Code       string
	Chain      []string
}

// Dump walks the error chain and collects every message along the way.
func Dump(err error) ErrorDump {
	dump := ErrorDump{}
	if err == nil {
		return dump
	}

	dump.TopMessage = err.Error()
	if typed := As(err); typed != nil {
		dump.Code = string(typed.Code())
	}

	for cursor := err; cursor != nil; cursor = errors.Unwrap(cursor) {
		dump.Chain = append(dump.Chain, cursor.Error())
	}
	return dump
}
