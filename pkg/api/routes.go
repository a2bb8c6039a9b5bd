package api

import "net/http"

// Param documents a path parameter.
type Param struct {
	Name        string
	Description string
}

// Response documents one possible response of a route.
type Response struct {
	Description string
	// Body is a zero value of the JSON body type, or nil for no body.
	Body any
}

// Route is one entry of the API route table. The same table registers the
// chi routes and renders the API document, so the two cannot drift apart.
type Route struct {
	Method      string
	Pattern     string
	OperationID string
	Summary     string
	Tag         string
	Params      []Param
	// Request is a zero value of the JSON request body type, or nil.
	Request   any
	Responses map[int]Response

	handler func(h *Handler) http.HandlerFunc
}

var nameParam = Param{Name: "name", Description: "Filename inside the managed directory"}

const (
	filesTag       = "files"
	operationalTag = "operational"
)

var (
	errNotFound    = Response{Description: "File not found", Body: ErrorResponse{}}
	errBadRequest  = Response{Description: "Invalid filename or request", Body: ErrorResponse{}}
	errConflict    = Response{Description: "File already exists", Body: ErrorResponse{}}
	errTooLarge    = Response{Description: "Request body too large", Body: ErrorResponse{}}
	errInternal    = Response{Description: "Internal error", Body: ErrorResponse{}}
	errRateLimited = Response{Description: "Rate limit exceeded", Body: ErrorResponse{}}
)

// Routes returns the file API route table.
func Routes() []Route {
	return []Route{
		{
			Method:      http.MethodGet,
			Pattern:     "/",
			OperationID: "root",
			Summary:     "Service banner",
			Tag:         operationalTag,
			Responses: map[int]Response{
				http.StatusOK: {Description: "Service is running"},
			},
			handler: func(h *Handler) http.HandlerFunc { return h.handleRoot },
		},
		{
			Method:      http.MethodGet,
			Pattern:     "/healthz",
			OperationID: "healthz",
			Summary:     "Health check",
			Tag:         operationalTag,
			Responses: map[int]Response{
				http.StatusOK: {Description: "Healthy", Body: HealthResponse{}},
			},
			handler: func(h *Handler) http.HandlerFunc { return h.handleHealthz },
		},
		{
			Method:      http.MethodGet,
			Pattern:     "/files",
			OperationID: "listFiles",
			Summary:     "List all managed files",
			Tag:         filesTag,
			Responses: map[int]Response{
				http.StatusOK:                  {Description: "Filenames, unordered", Body: []string{}},
				http.StatusTooManyRequests:     errRateLimited,
				http.StatusInternalServerError: errInternal,
			},
			handler: func(h *Handler) http.HandlerFunc { return h.handleList },
		},
		{
			Method:      http.MethodPost,
			Pattern:     "/files",
			OperationID: "createAnonymousFile",
			Summary:     "Create a file with a generated name",
			Tag:         filesTag,
			Request:     ContentRequest{},
			Responses: map[int]Response{
				http.StatusCreated:               {Description: "File created", Body: CreatedResponse{}},
				http.StatusBadRequest:            errBadRequest,
				http.StatusRequestEntityTooLarge: errTooLarge,
				http.StatusTooManyRequests:       errRateLimited,
				http.StatusInternalServerError:   errInternal,
			},
			handler: func(h *Handler) http.HandlerFunc { return h.handleCreateAnonymous },
		},
		{
			Method:      http.MethodGet,
			Pattern:     "/files/{name}",
			OperationID: "getFile",
			Summary:     "Read a text file",
			Tag:         filesTag,
			Params:      []Param{nameParam},
			Responses: map[int]Response{
				http.StatusOK:                  {Description: "File content", Body: fileBody{}},
				http.StatusBadRequest:          {Description: "Invalid filename or not a text file", Body: ErrorResponse{}},
				http.StatusNotFound:            errNotFound,
				http.StatusTooManyRequests:     errRateLimited,
				http.StatusInternalServerError: errInternal,
			},
			handler: func(h *Handler) http.HandlerFunc { return h.handleGet },
		},
		{
			Method:      http.MethodPost,
			Pattern:     "/files/{name}",
			OperationID: "createFile",
			Summary:     "Create a file with the given name",
			Tag:         filesTag,
			Params:      []Param{nameParam},
			Request:     ContentRequest{},
			Responses: map[int]Response{
				http.StatusCreated:               {Description: "File created", Body: MessageResponse{}},
				http.StatusBadRequest:            errBadRequest,
				http.StatusConflict:              errConflict,
				http.StatusRequestEntityTooLarge: errTooLarge,
				http.StatusTooManyRequests:       errRateLimited,
				http.StatusInternalServerError:   errInternal,
			},
			handler: func(h *Handler) http.HandlerFunc { return h.handleCreateNamed },
		},
		{
			Method:      http.MethodPut,
			Pattern:     "/files/{name}",
			OperationID: "updateFile",
			Summary:     "Replace the content of an existing file",
			Tag:         filesTag,
			Params:      []Param{nameParam},
			Request:     ContentRequest{},
			Responses: map[int]Response{
				http.StatusOK:                    {Description: "File modified", Body: MessageResponse{}},
				http.StatusBadRequest:            errBadRequest,
				http.StatusNotFound:              errNotFound,
				http.StatusRequestEntityTooLarge: errTooLarge,
				http.StatusTooManyRequests:       errRateLimited,
				http.StatusInternalServerError:   errInternal,
			},
			handler: func(h *Handler) http.HandlerFunc { return h.handleUpdate },
		},
		{
			Method:      http.MethodDelete,
			Pattern:     "/files/{name}",
			OperationID: "deleteFile",
			Summary:     "Delete a file",
			Tag:         filesTag,
			Params:      []Param{nameParam},
			Responses: map[int]Response{
				http.StatusOK:                  {Description: "File deleted", Body: MessageResponse{}},
				http.StatusBadRequest:          errBadRequest,
				http.StatusNotFound:            errNotFound,
				http.StatusTooManyRequests:     errRateLimited,
				http.StatusInternalServerError: errInternal,
			},
			handler: func(h *Handler) http.HandlerFunc { return h.handleDelete },
		},
	}
}

// fileBody documents the GET /files/{name} body (files.File).
type fileBody struct {
	Name    string `json:"name" jsonschema:"description=Filename"`
	Content string `json:"content" jsonschema:"description=UTF-8 text content"`
}
