package pagination

const (
	// DefaultPageSize is the storefront grid size when a size is not provided.
	DefaultPageSize = 12
	// MaxPageSize caps how many rows any page can request.
	MaxPageSize = 100
)

// Meta describes one page of an offset-paginated result.
type Meta struct {
	Page      int  `json:"page"`
	PageSize  int  `json:"page_size"`
	Total     int  `json:"total"`
	PageCount int  `json:"page_count"`
	HasNext   bool `json:"has_next"`
}

// NormalizeSize enforces the default and maximum page sizes. Non-positive
// fallbacks use the package defaults.
func NormalizeSize(size, fallback, max int) int {
	if fallback <= 0 {
		fallback = DefaultPageSize
	}
	if max <= 0 {
		max = MaxPageSize
	}
	if size <= 0 {
		return fallback
	}
	if size > max {
		return max
	}
	return size
}

// PageCount returns ceil(total/size), zero for an empty result.
func PageCount(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total-1)/size + 1
}

// Bounds returns the half-open [start,end) slice window for a 1-based page.
// Pages past the data yield start == end == total. Callers validate page >= 1.
func Bounds(page, size, total int) (int, int) {
	if page < 1 || size <= 0 || total <= 0 {
		return 0, 0
	}
	// Compare in page units first so huge pages cannot overflow the offset.
	if page-1 > (total-1)/size {
		return total, total
	}
	start := (page - 1) * size
	end := total
	if size < total-start {
		end = start + size
	}
	return start, end
}

// NewMeta builds the response metadata for a page.
func NewMeta(page, size, total int) Meta {
	count := PageCount(total, size)
	return Meta{
		Page:      page,
		PageSize:  size,
		Total:     total,
		PageCount: count,
		HasNext:   page < count,
	}
}
