package types

// ApiResponse is the JSON envelope returned by every endpoint.
type ApiResponse struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Status     int         `json:"status"`
	Kind       ErrorKind   `json:"kind,omitempty"`
	RetryAfter int         `json:"retry_after,omitempty"`
	Token      string      `json:"token,omitempty"`
	User       interface{} `json:"user,omitempty"`
	Data       interface{} `json:"data,omitempty"`
}

// Pagination describes a page of a list response.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// ListResponse wraps a page of items.
type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination Pagination  `json:"pagination"`
}
