package entity

// FriendLink is an entry of the blogroll shown in the sidebar.
type FriendLink struct {
	ID       int64
	Name     string
	URL      string
	Note     string
	Position int
	Active   bool
}

// Link is a navigation link rendered in the site menu.
type Link struct {
	ID       int64
	Name     string
	URL      string
	Position int
}
