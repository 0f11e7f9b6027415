package search

import "strconv"

// MaxPage is the last page reachable through the paginator.
const MaxPage = 10

// PageLink is one entry of the paginator strip.
type PageLink struct {
	Page   int
	Active bool
}

// ClampPage limits n to 1..MaxPage.
func ClampPage(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxPage {
		return MaxPage
	}
	return n
}

// ParsePage reads a page query value. Anything that is not a positive
// integer means page 1.
func ParsePage(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return ClampPage(n)
}

func NextPage(current int) int { return ClampPage(current + 1) }

func PrevPage(current int) int { return ClampPage(current - 1) }

// Paginator returns links for pages 1..MaxPage with current marked active.
func Paginator(current int) []PageLink {
	links := make([]PageLink, 0, MaxPage)
	for i := 1; i <= MaxPage; i++ {
		links = append(links, PageLink{Page: i, Active: i == current})
	}
	return links
}
