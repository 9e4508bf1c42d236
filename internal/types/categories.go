package types

// Category names one of the six waste categories.
type Category string

const (
	CategoryDuplicates  Category = "duplicates"
	CategoryVersioned   Category = "versioned"
	CategoryStale       Category = "stale"
	CategoryArchived    Category = "archived"
	CategoryLargeUnused Category = "large_unused"
	CategoryTemporary   Category = "temporary"
)

// AllCategories lists the categories in report order.
var AllCategories = []Category{
	CategoryDuplicates,
	CategoryVersioned,
	CategoryStale,
	CategoryArchived,
	CategoryLargeUnused,
	CategoryTemporary,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

// CategoryStats holds the totals for one category.
type CategoryStats struct {
	Count             int      `json:"count"`
	TotalSizeGB       float64  `json:"total_size_gb"`
	PercentageOfTotal float64  `json:"percentage_of_total"`
	Items             []string `json:"items"`
}

// Record counts one item of sizeGB. The identifier is kept as a sample
// while fewer than sampleLimit samples are held; empty identifiers are not sampled.
func (c *CategoryStats) Record(sizeGB float64, item string, sampleLimit int) {
	c.Count++
	c.TotalSizeGB += sizeGB
	c.Sample(item, sampleLimit)
}

// Sample appends item to the sample list if there is room for it.
func (c *CategoryStats) Sample(item string, sampleLimit int) {
	if item == "" || len(c.Items) >= sampleLimit {
		return
	}
	c.Items = append(c.Items, item)
}

// Merge adds o into c. Samples are concatenated without deduplication.
func (c *CategoryStats) Merge(o CategoryStats) {
	c.Count += o.Count
	c.TotalSizeGB += o.TotalSizeGB
	c.Items = append(c.Items, o.Items...)
}

// FileCategories groups the statistics of all six categories.
type FileCategories struct {
	Duplicates  CategoryStats `json:"duplicates"`
	Versioned   CategoryStats `json:"versioned"`
	Stale       CategoryStats `json:"stale"`
	Archived    CategoryStats `json:"archived"`
	LargeUnused CategoryStats `json:"large_unused"`
	Temporary   CategoryStats `json:"temporary"`
}

// Get returns a pointer to the stats of category c, or nil for an unknown category.
func (f *FileCategories) Get(c Category) *CategoryStats {
	switch c {
	case CategoryDuplicates:
		return &f.Duplicates
	case CategoryVersioned:
		return &f.Versioned
	case CategoryStale:
		return &f.Stale
	case CategoryArchived:
		return &f.Archived
	case CategoryLargeUnused:
		return &f.LargeUnused
	case CategoryTemporary:
		return &f.Temporary
	}
	return nil
}

// Merge adds every category of o into f.
func (f *FileCategories) Merge(o FileCategories) {
	for _, c := range AllCategories {
		f.Get(c).Merge(*o.Get(c))
	}
}

// TotalSizeGB sums the sizes of all six categories.
func (f *FileCategories) TotalSizeGB() float64 {
	var total float64
	for _, c := range AllCategories {
		total += f.Get(c).TotalSizeGB
	}
	return total
}
