package spotly

import "strings"

// Filter selector sentinels. FilterAll disables a criterion; FilterNoTag
// selects only posts without a tag.
const (
	FilterAll   = "all"
	FilterNoTag = "no-tag"
)

// FilterPosts combines status, tag and free-text predicates over a
// post collection with logical AND. It is pure and total: input order
// is preserved, no input is mutated, and it is safe to call on every
// keystroke.
//
// Status matches by exact, case-sensitive equality after stripping any
// legacy enum namespace prefix. Tag matches case-insensitively with
// surrounding whitespace trimmed. Search matches case-insensitively as
// a substring of title, content or author username.
func FilterPosts(posts []Post, statusFilter, tagFilter, searchText string) []Post {
	filtered := make([]Post, 0, len(posts))
	for _, p := range posts {
		if matchStatus(&p, statusFilter) && matchTag(&p, tagFilter) && matchSearch(&p, searchText) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func matchStatus(p *Post, statusFilter string) bool {
	if statusFilter == FilterAll {
		return true
	}
	return NormalizeStatus(string(p.Status)) == statusFilter
}

func matchTag(p *Post, tagFilter string) bool {
	switch tagFilter {
	case FilterAll:
		return true
	case FilterNoTag:
		return p.TagName == nil || *p.TagName == ""
	}
	if p.TagName == nil {
		return false
	}
	want := strings.TrimSpace(strings.ToLower(tagFilter))
	got := strings.TrimSpace(strings.ToLower(*p.TagName))
	return got == want
}

func matchSearch(p *Post, searchText string) bool {
	if searchText == "" {
		return true
	}
	needle := strings.ToLower(searchText)
	return strings.Contains(strings.ToLower(p.Title), needle) ||
		strings.Contains(strings.ToLower(p.Content), needle) ||
		strings.Contains(strings.ToLower(p.Username), needle)
}
