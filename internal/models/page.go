package models

// Default and maximum page sizes for list operations.
const (
	DefaultPageLimit = 100
	MaxPageLimit     = 1000
)

// Page selects a window of a list by offset and limit.
type Page struct {
	Offset int `query:"offset" validate:"gte=0"`
	Limit  int `query:"limit" validate:"gte=0,lte=1000"`
}

// Normalize fills in defaults for unset fields.
func (p Page) Normalize() Page {
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}
