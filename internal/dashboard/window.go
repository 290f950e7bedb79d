package dashboard

// WindowSize is the number of page buttons shown around the current page.
const WindowSize = 5

// PageWindow is the bounded range of page numbers shown by the pager.
type PageWindow struct {
	Current   int   `json:"current"    yaml:"current"`
	Total     int   `json:"total"      yaml:"total"`
	Pages     []int `json:"pages"      yaml:"pages"`
	ShowFirst bool  `json:"show_first" yaml:"show_first"`
	ShowLast  bool  `json:"show_last"  yaml:"show_last"`
	HasPrev   bool  `json:"has_prev"   yaml:"has_prev"`
	HasNext   bool  `json:"has_next"   yaml:"has_next"`
}

// Window centres up to WindowSize pages on current. Out-of-range inputs are
// clamped; ShowFirst/ShowLast mark when a jump to page 1 or the last page
// sits outside the window.
func Window(current, total int) PageWindow {
	total = max(total, 1)
	current = clamp(current, 1, total)

	half := WindowSize / 2
	start := clamp(current-half, 1, max(1, total-WindowSize+1))
	end := clamp(start+WindowSize-1, 1, total)

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}

	return PageWindow{
		Current:   current,
		Total:     total,
		Pages:     pages,
		ShowFirst: start > 1,
		ShowLast:  end < total,
		HasPrev:   current > 1,
		HasNext:   current < total,
	}
}

func clamp(v, lo, hi int) int {
	return min(hi, max(lo, v))
}
