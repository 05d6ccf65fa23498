package models

// Memory is a single journal entry.
type Memory struct {
	ID          string   `json:"id"`
	Category    Category `json:"category"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DateISO     string   `json:"dateISO"`
	PhotoURI    string   `json:"photoUri,omitempty"`
	CreatedAt   int64    `json:"createdAt"`
}

// Draft carries the caller-supplied fields of a new memory. The store assigns
// ID and CreatedAt.
type Draft struct {
	Category    Category
	Title       string
	Description string
	DateISO     string
	PhotoURI    string
}

// Patch lists the mutable fields to replace on an existing memory. Nil fields
// are left untouched; a non-nil empty PhotoURI removes the photo.
type Patch struct {
	Category    *Category `json:"category,omitempty"`
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	DateISO     *string   `json:"dateISO,omitempty"`
	PhotoURI    *string   `json:"photoUri,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Category == nil && p.Title == nil && p.Description == nil &&
		p.DateISO == nil && p.PhotoURI == nil
}

// Snapshot is a point-in-time copy of the whole diary state. Version grows
// by one with every mutation.
type Snapshot struct {
	Version       uint64   `json:"version"`
	Memories      []Memory `json:"memories"`
	Points        int      `json:"points"`
	PurchasedTips []string `json:"purchasedTips"`
}

// UntitledTitle replaces blank titles.
const UntitledTitle = "Untitled"
