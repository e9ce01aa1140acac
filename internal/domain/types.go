package domain

// Pagination carries paging params.
type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

// Normalize clamps limit/offset into the accepted range.
func (p Pagination) Normalize() Pagination {
	if p.Limit <= 0 {
		p.Limit = DefaultListLimit
	}
	if p.Limit > MaxListLimit {
		p.Limit = MaxListLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// RequestContext carries authenticated admin info when available.
type RequestContext struct {
	AdminID int64  `json:"adminId"`
	Role    string `json:"role"`
}

const (
	RoleSuper = "SUPER"
	RoleStaff = "STAFF"
)
