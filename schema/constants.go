package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for the run ledger.
	DatabaseBackend string

	// Component represents a top-level impact scorecard component.
	Component string

	// OutcomeStatus represents how a single partner fared in a batch run.
	OutcomeStatus string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
	XLSXOut    OutputMode = "xlsx"
)

// All ledger backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default
)

// All scorecard components supported.
const (
	ImpactComponent    Component = "Impact"
	TargetingComponent Component = "Targeting"
	ProductComponent   Component = "Product"
	ProcessComponent   Component = "Process"
)

// All partner outcomes recorded in the ledger.
const (
	SucceededStatus OutcomeStatus = "succeeded"
	FailedStatus    OutcomeStatus = "failed"
)

// Column names of the input files.
const (
	PartnerIDColumn   = "Partner ID"
	NameColumn        = "Name"
	CountryColumn     = "Country"
	VolumeColumn      = "volume"
	RegionColumn      = "Loan Geography IRS Region"
	DisplayNameColumn = "Partner Details Field Partner Name"
	MappingIDColumn   = "Partner Details Partner ID"
)

// Column suffixes appended by the ranking step.
const (
	PctSuffix       = " pct"
	RegionPctSuffix = " region pct"
)

// Loan theme column names after relabeling.
const (
	LoanThemeTypeColumn  = "Loan Theme Type"
	LoanThemeNameColumn  = "Loan Theme Name"
	ReportingTagColumn   = "Reporting Tag"
	ResearchRatingColumn = "Research Rating"
)

// AllComponents lists the top-level components in report order.
var AllComponents = []Component{ImpactComponent, TargetingComponent, ProductComponent, ProcessComponent}

// DefaultRankFields lists the score columns ranked for every report.
var DefaultRankFields = []string{
	"Impact", "Targeting", "Product", "Process",
	"MPI", "Findex", "Outreach", "Research", "Sector",
}

// DefaultPartnerIDs are reported when no partner IDs are given.
var DefaultPartnerIDs = []int{202, 386, 77, 55, 58}

// ComponentFields maps each component to the score columns shown in its table.
var ComponentFields = map[Component][]string{
	ImpactComponent:    {"Impact", "Targeting", "Product", "Process"},
	TargetingComponent: {"Targeting", "MPI", "Findex", "Outreach"},
	ProductComponent:   {"Product", "Research", "Sector"},
	ProcessComponent:   {"Process"},
}

// RegionCodes maps full region names to the short codes used in labels.
var RegionCodes = map[string]string{
	"Central America and the Caribbean":        "LAC",
	"East Asia and the Pacific":                "EAP",
	"Europe (Including Iceland and Greenland)": "W. Europe",
	"Middle East and North Africa":             "ME/NA",
	"North America":                            "Mexico",
	"Russia and the Newly Independent States":  "E. Europe",
	"South America":                            "S. Amer",
	"South Asia":                               "S. Asia",
	"Sub-Saharan Africa":                       "SSA",
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
	XLSXOut:    {},
}

// ValidDatabaseBackends lists all valid ledger backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ParseComponent resolves a component name, failing for anything outside the closed set.
func ParseComponent(name string) (Component, error) {
	c := Component(name)
	if _, ok := ComponentFields[c]; !ok {
		return "", unknownComponent(name)
	}
	return c, nil
}

// PctColumn returns the global percentile column name for a field.
func PctColumn(field string) string {
	return field + PctSuffix
}

// RegionPctColumn returns the regional percentile column name for a field.
func RegionPctColumn(field string) string {
	return field + RegionPctSuffix
}
