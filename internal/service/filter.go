package service

import (
	"iter"
	"strings"

	"github.com/sakif/gitorbit/internal/model"
)

// SidebarPageSize is how many of the user's repositories the dashboard
// sidebar lists before "Show more".
const SidebarPageSize = 7

// FilterByName returns the repositories whose name contains q, ignoring
// case, in their original order. An empty q returns repos unchanged;
// whitespace in q is matched like any other character.
//
// The filter only looks at the list already loaded for this request; it
// never triggers a fetch.
func FilterByName(repos []model.Repository, q string) []model.Repository {
	q = strings.ToLower(q)
	if q == "" {
		return repos
	}
	out := make([]model.Repository, 0, len(repos))
	for _, r := range repos {
		if strings.Contains(strings.ToLower(r.Name), q) {
			out = append(out, r)
		}
	}
	return out
}

// Page splits repos into consecutive pages of at most size entries and
// yields them with their zero-based page number. The sequence is finite and
// can be ranged over again from the start. A size below 1 yields everything
// as a single page.
func Page(repos []model.Repository, size int) iter.Seq2[int, []model.Repository] {
	return func(yield func(int, []model.Repository) bool) {
		if len(repos) == 0 {
			return
		}
		step := size
		if step < 1 {
			step = len(repos)
		}
		for n, start := 0, 0; start < len(repos); n, start = n+1, start+step {
			end := min(start+step, len(repos))
			if !yield(n, repos[start:end:end]) {
				return
			}
		}
	}
}

// FirstPage returns the first page of Page and whether more pages follow.
func FirstPage(repos []model.Repository, size int) ([]model.Repository, bool) {
	for _, page := range Page(repos, size) {
		return page, len(page) < len(repos)
	}
	return nil, false
}
