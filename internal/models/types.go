package models

// Category is the closed classification tag of a memory.
type Category string

const (
	CategoryJoy        Category = "joy"
	CategoryPersonal   Category = "personal"
	CategoryChallenges Category = "challenges"
)

var ValidCategories = map[Category]bool{
	CategoryJoy:        true,
	CategoryPersonal:   true,
	CategoryChallenges: true,
}

func (c Category) IsValid() bool {
	return ValidCategories[c]
}

// CreateMemoryRequest is the payload for POST /memories.
type CreateMemoryRequest struct {
	Category    Category `json:"category" validate:"required,category"`
	Title       string   `json:"title" validate:"max=200"`
	Description string   `json:"description" validate:"max=5000"`
	DateISO     string   `json:"dateISO" validate:"required,isodate"`
	PhotoURI    string   `json:"photoUri" validate:"max=2048"`
}

// Draft converts the request into store input.
func (r *CreateMemoryRequest) Draft() Draft {
	return Draft{
		Category:    r.Category,
		Title:       r.Title,
		Description: r.Description,
		DateISO:     r.DateISO,
		PhotoURI:    r.PhotoURI,
	}
}

// UpdateMemoryRequest is the payload for PATCH /memories/{id}.
type UpdateMemoryRequest struct {
	Category    *Category `json:"category,omitempty" validate:"omitempty,category"`
	Title       *string   `json:"title,omitempty" validate:"omitempty,max=200"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=5000"`
	DateISO     *string   `json:"dateISO,omitempty" validate:"omitempty,isodate"`
	PhotoURI    *string   `json:"photoUri,omitempty" validate:"omitempty,max=2048"`
}

func (r *UpdateMemoryRequest) Patch() Patch {
	return Patch{
		Category:    r.Category,
		Title:       r.Title,
		Description: r.Description,
		DateISO:     r.DateISO,
		PhotoURI:    r.PhotoURI,
	}
}

// ListResponse is returned from GET /memories and GET /days/{date}.
type ListResponse struct {
	Memories []Memory `json:"memories"`
	Total    int      `json:"total"`
}

// ShareResponse is returned from GET /memories/{id}/share.
type ShareResponse struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// CalendarCell is one cell of the month grid. Blank cells pad the first week.
type CalendarCell struct {
	Blank     bool   `json:"blank"`
	Day       int    `json:"day,omitempty"`
	Date      string `json:"date,omitempty"`
	HasMemory bool   `json:"hasMemory,omitempty"`
}

// CalendarResponse is returned from GET /calendar.
type CalendarResponse struct {
	Title       string           `json:"title"`
	Month       string           `json:"month"`
	Prev        string           `json:"prev"`
	Next        string           `json:"next"`
	Weeks       [][]CalendarCell `json:"weeks"`
	Days        []string         `json:"days"`
	SelectedDay string           `json:"selectedDay,omitempty"`
	Selected    []Memory         `json:"selected,omitempty"`
}

// RewardsResponse is returned from the /rewards endpoints.
type RewardsResponse struct {
	Points        int      `json:"points"`
	PurchasedTips []string `json:"purchasedTips"`
}

// AmountRequest is the payload for POST /rewards/points and /rewards/spend.
type AmountRequest struct {
	Amount int `json:"amount" validate:"gte=0"`
}

// PurchaseRequest is the payload for POST /tips/{id}/purchase. Cost is only
// consulted for tips absent from the catalog.
type PurchaseRequest struct {
	Cost *int `json:"cost,omitempty" validate:"omitempty,gte=0"`
}

// PurchaseResponse reports the outcome of a spend or purchase.
type PurchaseResponse struct {
	Success bool   `json:"success"`
	TipID   string `json:"tipId,omitempty"`
	Cost    int    `json:"cost"`
	Points  int    `json:"points"`
}

// TipView is a catalog entry annotated with purchase state.
type TipView struct {
	ID        string `json:"id"`
	Title     string `json:"title,omitempty"`
	Cost      int    `json:"cost"`
	Body      string `json:"body,omitempty"`
	Purchased bool   `json:"purchased"`
}

// ServiceCheck is the health of a single dependency.
type ServiceCheck struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is returned from GET /health.
type HealthResponse struct {
	Status      string       `json:"status"`
	Ready       bool         `json:"ready"`
	Backend     ServiceCheck `json:"backend"`
	MemoryCount int          `json:"memoryCount"`
}
