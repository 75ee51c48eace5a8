package pagination

// PageRequest asks for Limit items after or before a cursor. At most one
// cursor may be set; with none the newest items are returned.
type PageRequest struct {
	BeforeCursor *string
	AfterCursor  *string
	Limit        int
}

// Page is one newest-first slice of a timeline. HasNextPage reports older
// items, HasPreviousPage newer ones.
type Page[T any] struct {
	Count           int
	Items           []T
	StartCursor     *string
	EndCursor       *string
	HasNextPage     bool
	HasPreviousPage bool
}
