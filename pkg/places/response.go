package places

import (
	"encoding/json"
	"fmt"
	"maps"
)

// Response is a read-only view over a decoded API response. Accessors report
// absent fields through their boolean result.
type Response struct {
	body    []byte
	payload map[string]any
}

// Hit is a single result entry.
type Hit map[string]any

// Get returns the field key of the hit.
func (h Hit) Get(key string) (any, bool) {
	v, ok := h[key]
	return v, ok
}

func newResponse(body []byte) (*Response, error) {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode places response: %w", err)
	}
	if payload == nil {
		return nil, ErrNotObject
	}

	return &Response{body: body, payload: payload}, nil
}

// Get returns the top-level field key.
func (r *Response) Get(key string) (any, bool) {
	v, ok := r.payload[key]
	return v, ok
}

// Hits returns the hits list. ok is false when the field is missing, is not a
// list, or holds an element that is not an object; Get("hits") still returns
// the value as decoded.
func (r *Response) Hits() ([]Hit, bool) {
	raw, ok := r.payload["hits"].([]any)
	if !ok {
		return nil, false
	}

	hits := make([]Hit, 0, len(raw))
	for _, item := range raw {
		obj, isObject := item.(map[string]any)
		if !isObject {
			return nil, false
		}
		hits = append(hits, Hit(obj))
	}

	return hits, true
}

// NbHits returns the nbHits metadata field.
func (r *Response) NbHits() (int, bool) {
	n, ok := r.payload["nbHits"].(float64)
	return int(n), ok
}

// Query returns the query echoed back by the API.
func (r *Response) Query() (string, bool) {
	q, ok := r.payload["query"].(string)
	return q, ok
}

// Raw returns a shallow copy of the decoded payload.
func (r *Response) Raw() map[string]any {
	return maps.Clone(r.payload)
}

// Decode unmarshals the original body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.body, v); err != nil {
		return fmt.Errorf("failed to decode places response: %w", err)
	}

	return nil
}
