package domain

// Article is a read-only journal entry.
type Article struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Date    string `json:"date"`    // already formatted for display, e.g. "May 15, 2025"
	Excerpt string `json:"excerpt"` // plain text
	Image   string `json:"image"`
	Content string `json:"content"` // sanitized HTML
}

// FindArticle returns the article with the given id.
func FindArticle(articles []Article, id int) (Article, bool) {
	for _, a := range articles {
		if a.ID == id {
			return a, true
		}
	}
	return Article{}, false
}
