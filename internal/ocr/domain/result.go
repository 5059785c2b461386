package domain

import "time"

type ID string

// Result is one recognized upload. The image is kept inline as base64 so a
// listing can be rendered without a second fetch; ImageKey is set only when
// the original bytes were also archived to object storage.
type Result struct {
	ID          ID
	UserID      string
	Base64Image string
	Text        string
	ImageKey    string
	CreatedAt   time.Time
}
