package models

// QueryRequest represents the incoming question from a client
type QueryRequest struct {
	Query string `json:"query"` // Natural-language question about steel specs
}

// Citation represents one retrieved passage offered as evidence for an answer
type Citation struct {
	Ref            string `json:"ref"`             // Reference marker, "1".."N", scoped to one query
	Document       string `json:"document"`        // Source document name
	Page           string `json:"page"`            // Human-facing page label (1-indexed)
	ContentPreview string `json:"content_preview"` // Truncated passage text
}

// QueryResponse represents the answer sent back to the client
type QueryResponse struct {
	Response string     `json:"response"` // The generated answer with [N] citations
	Sources  []Citation `json:"sources"`  // Citations in retrieval order
	// Reference markers that appear in the answer but match no retrieved
	// passage. The model is trusted to reuse the markers it was shown; this
	// field flags the cases where it invented one.
	UnmatchedRefs []string `json:"unmatched_refs,omitempty"`
}

// BasicResponse is a generic message/status envelope
type BasicResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"` // "success" or "error"
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// DocumentInfo describes one indexed document in the listing operation
type DocumentInfo struct {
	Name   string `json:"name"`
	Pages  int    `json:"pages"`
	Status string `json:"status"`
}

// DocumentListResponse lists indexed documents along with the backend mode,
// so a placeholder list is never mistaken for the real registry
type DocumentListResponse struct {
	Documents []DocumentInfo `json:"documents"`
	Mode      string         `json:"mode"` // "live" or "fixture"
}
