package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 10
	// MaxLimit caps how many rows any page query can request.
	MaxLimit = 100
)

// Params holds page pagination inputs from controllers or services.
type Params struct {
	Page  int
	Limit int
}

// Meta describes the shape of a paginated result set.
type Meta struct {
	Total      int64
	Page       int
	TotalPages int
	HasMore    bool
}

// NormalizePage defaults non-positive pages to the first page.
func NormalizePage(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Normalize returns a copy of params with page and limit clamped.
func Normalize(params Params) Params {
	return Params{
		Page:  NormalizePage(params.Page),
		Limit: NormalizeLimit(params.Limit),
	}
}

// Offset returns the row offset for the normalized params.
func (p Params) Offset() int {
	return (NormalizePage(p.Page) - 1) * NormalizeLimit(p.Limit)
}

// BuildMeta derives the page metadata for a total row count.
func BuildMeta(params Params, total int64) Meta {
	params = Normalize(params)
	totalPages := int((total + int64(params.Limit) - 1) / int64(params.Limit))
	return Meta{
		Total:      total,
		Page:       params.Page,
		TotalPages: totalPages,
		HasMore:    int64(params.Page*params.Limit) < total,
	}
}
