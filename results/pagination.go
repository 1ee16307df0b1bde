package results

// Ellipsis marks a gap in the page-number sequence.
const Ellipsis = -1

// MaxVisiblePages is the window size below which every page is listed.
const MaxVisiblePages = 5

// PageNumbers lists the page links to render: every page when there are at
// most MaxVisiblePages, otherwise the first page, the neighbours of page,
// the last page and Ellipsis where pages are skipped.
func PageNumbers(page, totalPages int) []int {
	if totalPages <= 0 {
		return nil
	}
	if totalPages <= MaxVisiblePages {
		nums := make([]int, totalPages)
		for i := range nums {
			nums[i] = i + 1
		}
		return nums
	}

	nums := []int{1}
	start := max(2, page-1)
	end := min(totalPages-1, page+1)

	if start > 2 {
		nums = append(nums, Ellipsis)
	}
	for i := start; i <= end; i++ {
		nums = append(nums, i)
	}
	if end < totalPages-1 {
		nums = append(nums, Ellipsis)
	}
	return append(nums, totalPages)
}
