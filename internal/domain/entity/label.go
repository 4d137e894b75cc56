package entity

// Label is a reusable HTML snippet addressed by slug.
// HTML is itself a template and is rendered with the page's helper context.
type Label struct {
	ID    int64
	Slug  string
	Title string
	HTML  string
}
