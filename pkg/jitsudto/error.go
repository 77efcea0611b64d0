package jitsudto

// DomainError is the JSON error body of the ops API.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

func (e DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return "card-jitsu service error"
}
