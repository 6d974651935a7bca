package domain

// Profile is a bounded auto-purchase policy owned by an Account. The
// scheduler buys catalog items matching the filter bounds until either
// Count items were bought or Limit units were spent, then marks the
// profile Done. Done is terminal; only an explicit reset clears it.
type Profile struct {
	ProfileID string `json:"profileID"` // UUID

	// Catalog filter bounds, min <= max.
	MinPrice  int64 `json:"minPrice"`
	MaxPrice  int64 `json:"maxPrice"`
	MinSupply int64 `json:"minSupply"`
	MaxSupply int64 `json:"maxSupply"`

	Count int64 `json:"count"` // Max items to acquire
	Limit int64 `json:"limit"` // Max spend

	Bought int64 `json:"bought"`
	Spent  int64 `json:"spent"`
	Done   bool  `json:"done"`

	// Recipient identity, exactly one set.
	TargetAccountID *int64  `json:"targetAccountID,omitempty"`
	TargetChannel   *string `json:"targetChannel,omitempty"`
}

// Completed reports whether the profile has reached either cap.
// Done must equal Completed() after every scheduler pass.
func (p *Profile) Completed() bool {
	return p.Bought >= p.Count || p.Spent >= p.Limit
}

// Reset clears purchase progress so the profile becomes schedulable again.
func (p *Profile) Reset() {
	p.Bought = 0
	p.Spent = 0
	p.Done = false
}
