package domain

import "time"

// Policy is a youth-support policy from the ingested catalog. Rows are
// read-only for this server except for the view counter.
type Policy struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Category       string     `json:"category"`
	Subcategory    string     `json:"subcategory,omitempty"`
	Keywords       []string   `json:"keywords,omitempty"`
	Description    string     `json:"description,omitempty"`
	SupportContent string     `json:"support_content,omitempty"`
	ApplyMethod    string     `json:"apply_method,omitempty"`
	ApplyURL       string     `json:"apply_url,omitempty"`
	Region         string     `json:"region,omitempty"`
	MinAge         *int       `json:"min_age,omitempty"`
	MaxAge         *int       `json:"max_age,omitempty"`
	ViewCount      int64      `json:"view_count"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// PolicyRef is the compact projection used by the popular/recent listings and
// by recommendation resolution.
type PolicyRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
