package service

// SortMode is the three-state sort toggle of the dashboard view.
type SortMode int

const (
	SortNone SortMode = iota
	SortCostAscending
	SortCostDescending
)

// Next cycles unsorted -> ascending -> descending -> unsorted.
func (m SortMode) Next() SortMode {
	switch m {
	case SortNone:
		return SortCostAscending
	case SortCostAscending:
		return SortCostDescending
	default:
		return SortNone
	}
}

func (m SortMode) String() string {
	switch m {
	case SortCostAscending:
		return "cost_asc"
	case SortCostDescending:
		return "cost_desc"
	default:
		return "none"
	}
}
