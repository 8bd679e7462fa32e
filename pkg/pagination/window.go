package pagination

// Marker is one slot of a pagination control: a page number, or Dots for a
// collapsed run of pages.
type Marker int

// Dots marks an ellipsis.
const Dots Marker = -1

// DefaultSiblingCount is the number of pages shown on each side of the
// current one.
const DefaultSiblingCount = 1

func (m Marker) IsDots() bool {
	return m == Dots
}

// Window computes the page markers to display for a list of totalCount items
// split into pages of pageSize, centred on currentPage.
//
// The first and last pages are always shown. Ellipses appear once the page
// count exceeds siblingCount + 5, and each one stands for at least two pages:
// a gap of a single page shows that page instead.
func Window(totalCount, pageSize, siblingCount, currentPage int) []Marker {
	if pageSize <= 0 {
		pageSize = 1
	}
	if siblingCount < 0 {
		siblingCount = 0
	}

	totalPageCount := TotalPages(int64(totalCount), pageSize)
	totalPageNumbers := siblingCount + 5

	if totalPageNumbers >= totalPageCount {
		return pageRange(1, totalPageCount)
	}

	leftSiblingIndex := max(currentPage-siblingCount, 1)
	rightSiblingIndex := min(currentPage+siblingCount, totalPageCount)

	// pages 2..left-1 and right+1..last-1 are the candidate gaps
	showLeftDots := leftSiblingIndex-2 >= 2
	showRightDots := totalPageCount-1-rightSiblingIndex >= 2

	firstPageIndex := 1
	lastPageIndex := totalPageCount

	switch {
	case !showLeftDots && showRightDots:
		leftItemCount := 3 + 2*siblingCount
		if totalPageCount-1-leftItemCount < 2 {
			return pageRange(1, totalPageCount)
		}
		out := pageRange(1, leftItemCount)
		return append(out, Dots, Marker(totalPageCount))

	case showLeftDots && !showRightDots:
		rightItemCount := 3 + 2*siblingCount
		if totalPageCount-1-rightItemCount < 2 {
			return pageRange(1, totalPageCount)
		}
		out := []Marker{Marker(firstPageIndex), Dots}
		return append(out, pageRange(totalPageCount-rightItemCount+1, totalPageCount)...)

	case showLeftDots && showRightDots:
		out := []Marker{Marker(firstPageIndex), Dots}
		out = append(out, pageRange(leftSiblingIndex, rightSiblingIndex)...)
		return append(out, Dots, Marker(lastPageIndex))
	}

	// both gaps are single pages
	return pageRange(1, totalPageCount)
}

func pageRange(start, end int) []Marker {
	if end < start {
		return []Marker{}
	}
	out := make([]Marker, 0, end-start+1)
	for i := start; i <= end; i++ {
		out = append(out, Marker(i))
	}
	return out
}
