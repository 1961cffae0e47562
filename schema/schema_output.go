package schema

// ScoringRow is one sub-component line of a scoring table.
// Regional fields are only meaningful when the owning table HasRegion.
type ScoringRow struct {
	Component        string  `json:"component"`
	Score            float64 `json:"score"`
	MedianAll        float64 `json:"median_all"`
	PercentileAll    string  `json:"percentile_all"`
	MedianRegion     float64 `json:"median_region,omitempty"`
	PercentileRegion string  `json:"percentile_region,omitempty"`
}

// ScoringTable compares one partner against all partners and its region for a component.
type ScoringTable struct {
	PartnerID  int          `json:"partner_id"`
	Component  Component    `json:"component"`
	Region     string       `json:"region,omitempty"`
	RegionCode string       `json:"region_code,omitempty"` // Empty when the region has no short code
	HasRegion  bool         `json:"has_region"`
	Rows       []ScoringRow `json:"rows"`
}

// Headers returns the column labels of the table in display order.
// Regional columns are left out when the partner has no region.
func (st *ScoringTable) Headers() []string {
	headers := []string{"Component", "Component Score", "Median (All)", "Percentile (vs. All)"}
	if st.HasRegion {
		label := st.RegionLabel()
		headers = append(headers, "Median ("+label+")", "Percentile (vs. "+label+")")
	}
	return headers
}

// RegionLabel returns the short region label used in column headers.
func (st *ScoringTable) RegionLabel() string {
	if st.RegionCode == "" {
		return "n/a"
	}
	return st.RegionCode
}

// ComponentSummary is the headline and explanation shown above a component table.
type ComponentSummary struct {
	Component Component `json:"component"`
	Value     float64   `json:"value"`
	Median    float64   `json:"median"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
}

// HistogramData is the distribution of a component score with the partner's position marked.
type HistogramData struct {
	Title     string    `json:"title"`
	Component string    `json:"component"`
	Values    []float64 `json:"values"`
	Marker    float64   `json:"marker"`
	HasMarker bool      `json:"has_marker"`
}

// ReportSection is one component block of a partner report card.
type ReportSection struct {
	Summary         ComponentSummary `json:"summary"`
	Table           *ScoringTable    `json:"table"`
	AllHistogram    HistogramData    `json:"all_histogram"`
	RegionHistogram HistogramData    `json:"region_histogram"`
}

// ReportCard holds every value rendered into one partner's report.
type ReportCard struct {
	PartnerID   int             `json:"partner_id"`
	Name        string          `json:"name"`
	CompactName string          `json:"compact_name"`
	Region      string          `json:"region,omitempty"`
	Stats       string          `json:"stats"`
	Sections    []ReportSection `json:"sections"`
}
