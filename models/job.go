package models

// NotAvailable is substituted for any text field the extractor cannot locate.
const NotAvailable = "N/A"

// JobListing is one scraped or stored record.
//
// ID is zero until the store assigns one; Link is nil when the listing's
// title anchor was missing (it is never the NotAvailable sentinel).
type JobListing struct {
	ID         int64   `json:"id,omitempty"`
	Title      string  `json:"title"`
	Company    string  `json:"company"`
	Location   string  `json:"location"`
	Experience string  `json:"experience"`
	Link       *string `json:"link"`
}

// LinkOrEmpty returns the link value, or "" when absent.
func (j JobListing) LinkOrEmpty() string {
	if j.Link == nil {
		return ""
	}
	return *j.Link
}
