package entity

// Topic groups articles into an editorial series.
type Topic struct {
	ID      int64
	Name    string
	Slug    string
	Summary string
}
