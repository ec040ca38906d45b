package dto

// Envelope is the uniform response shape: {success, message} on failure,
// {success, data} on success.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func OK(data interface{}) Envelope {
	return Envelope{Success: true, Data: data}
}

func OKMessage(message string) Envelope {
	return Envelope{Success: true, Message: message}
}

func Fail(message string) Envelope {
	return Envelope{Success: false, Message: message}
}

// ValidationError reports per-field problems alongside the envelope.
type ValidationError struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}
