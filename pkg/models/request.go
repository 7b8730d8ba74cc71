package models

// Request is a single user request entering the pipeline.
type Request struct {
	// Input is the raw request text.
	Input string `json:"input"`
	// Attachments are media items accompanying the request.
	Attachments []Attachment `json:"attachments,omitempty"`
	// Context carries optional caller-provided key/value hints.
	Context map[string]string `json:"context,omitempty"`
	// UserID identifies the requester for session naming. Empty means anonymous.
	UserID string `json:"user_id,omitempty"`
}

// Attachment is a media item attached to a request.
type Attachment struct {
	// Type is the media kind, e.g. "image", "audio", "file".
	Type string `json:"type"`
	// URL locates the attachment content.
	URL string `json:"url"`
	// Name is the display name of the attachment.
	Name string `json:"name,omitempty"`
}

// Analysis is the classifier's read of a request: which capability
// tags apply and how complex the request is on a 1..10 scale.
type Analysis struct {
	// Tags are the capability tags detected in the request.
	Tags []Specialization `json:"tags"`
	// Complexity is the difficulty score, clamped to 1..10.
	Complexity int `json:"complexity"`
}

// HasTag returns true if the analysis detected the tag.
func (a Analysis) HasTag(tag Specialization) bool {
	for _, have := range a.Tags {
		if have == tag {
			return true
		}
	}
	return false
}
