package model

// Paste is a stored text document. Date is milliseconds since the Unix epoch
// and is assigned by the server at submission time.
type Paste struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author"`
	Date    int64  `json:"date"`
}

// PasteSummary is a Paste without its content, as returned by listings.
type PasteSummary struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Date   int64  `json:"date"`
}

// PasteDraft is what a client submits. Author and date are stamped by the
// server and are never taken from the request.
type PasteDraft struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Paste field names usable in the required-fields policy.
const (
	FieldTitle   = "title"
	FieldContent = "content"
	FieldAuthor  = "author"
	FieldDate    = "date"
)

// KnownField reports whether name is a paste field the required-fields policy can check.
func KnownField(name string) bool {
	switch name {
	case FieldTitle, FieldContent, FieldAuthor, FieldDate:
		return true
	}
	return false
}

// FieldSet reports whether the named field holds a non-empty value.
func (p Paste) FieldSet(name string) bool {
	switch name {
	case FieldTitle:
		return p.Title != ""
	case FieldContent:
		return p.Content != ""
	case FieldAuthor:
		return p.Author != ""
	case FieldDate:
		return p.Date != 0
	}
	return false
}

func (p Paste) Summary() PasteSummary {
	return PasteSummary{ID: p.ID, Title: p.Title, Author: p.Author, Date: p.Date}
}
