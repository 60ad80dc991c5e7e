package model

// Column names of the job listings table. SQL identifiers are unquoted, so
// Postgres folds them to lower case and SQLite matches them case-insensitively.
const (
	ColumnID            = "ID"
	ColumnTitle         = "TITLE"
	ColumnCompany       = "COMPANY"
	ColumnLocation      = "LOCATION"
	ColumnDescription   = "DESCRIPTION"
	ColumnJobHighlights = "JOB_HIGHLIGHTS"
	ColumnPostedDate    = "POSTED_DATE"
	ColumnApplyLinks    = "APPLY_LINKS"
	ColumnSearchQuery   = "SEARCH_QUERY"
)

// ListingColumns is the column order of the listings table.
var ListingColumns = []string{
	ColumnID,
	ColumnTitle,
	ColumnCompany,
	ColumnLocation,
	ColumnDescription,
	ColumnJobHighlights,
	ColumnPostedDate,
	ColumnApplyLinks,
	ColumnSearchQuery,
}

// Listing is one row of the job listings table. JSON tags follow the file
// written by the scraping job, so its output can be seeded directly.
type Listing struct {
	ID            uint   `gorm:"primaryKey" json:"-"`
	Title         string `json:"title"`
	Company       string `json:"company"`
	Location      string `json:"location"`
	Description   string `gorm:"type:text" json:"description"`
	JobHighlights string `gorm:"type:text" json:"job_highlights"`
	PostedDate    string `json:"posted_at"`
	ApplyLinks    string `json:"apply_link"`
	SearchQuery   string `json:"search_query"` // the scrape query that produced this listing
}

// Row returns the listing keyed by upper-case column name, the same shape the
// executor produces for database rows.
func (l Listing) Row() Row {
	return Row{
		ColumnID:            int64(l.ID),
		ColumnTitle:         l.Title,
		ColumnCompany:       l.Company,
		ColumnLocation:      l.Location,
		ColumnDescription:   l.Description,
		ColumnJobHighlights: l.JobHighlights,
		ColumnPostedDate:    l.PostedDate,
		ColumnApplyLinks:    l.ApplyLinks,
		ColumnSearchQuery:   l.SearchQuery,
	}
}
