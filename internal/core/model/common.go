package model

// Event kinds as they appear in cast records
const (
	KindOutput     = "o"
	KindInput      = "i"
	KindAnnotation = "m"
	KindResize     = "r"
)

// Timeline marker sources
const (
	MarkerAnnotation = "annotation"
	MarkerNavigation = "navigation"
)

// Inventory output formats
const (
	FormatTable   = "table"
	FormatJSON    = "json"
	FormatCSV     = "csv"
	FormatSummary = "summary"
)
