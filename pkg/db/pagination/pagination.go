package pagination

// Pagination carries 1-indexed page/limit parameters for list queries.
type Pagination struct {
	Page  int `form:"page,default=1"`
	Limit int `form:"limit,default=25" validate:"gte=1,lte=250"` // Min 1, Max 250
}

// Normalize clamps page and limit to sane values.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 1
	}
	if p.Limit > 250 {
		p.Limit = 250
	}
	return p
}

// Offset returns the row offset for the normalized page.
func (p Pagination) Offset() int {
	n := p.Normalize()
	offset := (n.Page - 1) * n.Limit
	if offset < 0 {
		return 0
	}
	return offset
}
