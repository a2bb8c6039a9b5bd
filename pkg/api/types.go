package api

// ContentRequest is the body of create and update requests.
//
// Content is a pointer so that an absent field can be told apart from an
// empty string; only the former is rejected.
type ContentRequest struct {
	Content *string `json:"content" jsonschema:"description=Full text content of the file"`
}

// MessageResponse is returned by named create, update and delete.
type MessageResponse struct {
	Message string `json:"message" jsonschema:"description=Human-readable confirmation"`
}

// CreatedResponse is returned by anonymous create.
type CreatedResponse struct {
	Message string `json:"message" jsonschema:"description=Human-readable confirmation"`
	Name    string `json:"name" jsonschema:"description=Generated filename"`
}

// ErrorResponse is the envelope for every failure.
type ErrorResponse struct {
	Error string `json:"error" jsonschema:"description=Failure description"`
}

// HealthResponse is returned by /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}
