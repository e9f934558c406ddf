package model

import "encoding/json"

// Page is one page of a list endpoint. The wire form is
// {"<items-key>": [...], "total": n, "page": p, "limit": l}; the items key
// differs per endpoint, so Page is decoded with DecodePage.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// HasMore reports whether pages beyond this one exist.
func (p *Page[T]) HasMore() bool {
	return p.Page*p.Limit < p.Total
}

// DecodePage decodes a list envelope whose items live under itemsKey.
func DecodePage[T any](data []byte, itemsKey string) (*Page[T], error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	p := &Page[T]{}
	if items, ok := raw[itemsKey]; ok {
		if err := json.Unmarshal(items, &p.Items); err != nil {
			return nil, err
		}
	}
	for key, dst := range map[string]*int{"total": &p.Total, "page": &p.Page, "limit": &p.Limit} {
		if v, ok := raw[key]; ok {
			if err := json.Unmarshal(v, dst); err != nil {
				return nil, err
			}
		}
	}
	if p.Items == nil {
		p.Items = []T{}
	}
	return p, nil
}

// PageOptions are the pagination query parameters every list endpoint accepts.
type PageOptions struct {
	Page  int
	Limit int
}

// DefaultPageOptions returns page 1 of 20.
func DefaultPageOptions() PageOptions {
	return PageOptions{Page: 1, Limit: 20}
}

// Clamp enforces limits (page >= 1, 1 <= limit <= 100).
func (o *PageOptions) Clamp() {
	if o.Page <= 0 {
		o.Page = 1
	}
	if o.Limit <= 0 {
		o.Limit = 20
	}
	if o.Limit > 100 {
		o.Limit = 100
	}
}
