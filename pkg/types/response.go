package types

// SuccessEnvelope wraps every analytics payload under a single data key.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the wire form of a pipeline failure. Details carries
// structured context such as missing column names and is omitted for
// internal errors.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
