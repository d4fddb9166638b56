package diagnostics

// ReportStatus is the rolled-up health of one analysis run.
type ReportStatus string

const (
	ReportHealthy     ReportStatus = "healthy"
	ReportWarnings    ReportStatus = "warnings"
	ReportIssuesFound ReportStatus = "issues_found"
)

// ReportStatistics summarizes finding counts. Critical counts the
// critical/high/error ranks; Warnings counts warning/medium.
type ReportStatistics struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	Warnings int `json:"warnings"`
}

// AnalysisReport aggregates all detector findings for one run.
type AnalysisReport struct {
	Discrepancies []Discrepancy    `json:"discrepancies"`
	Statistics    ReportStatistics `json:"statistics"`
	Status        ReportStatus     `json:"status"`
}

// AssembleReport ranks findings by severity and computes the rollup. It does
// not deduplicate across detectors: each rule answers a different question,
// so overlapping findings are kept as-is.
func AssembleReport(discrepancies []Discrepancy) *AnalysisReport {
	ranked := make([]Discrepancy, len(discrepancies))
	copy(ranked, discrepancies)
	sortBySeverity(ranked)

	stats := ReportStatistics{Total: len(ranked)}
	status := ReportHealthy
	for _, d := range ranked {
		switch severityRank(d.Severity) {
		case 0, 1:
			stats.Critical++
			status = ReportIssuesFound
		case 2:
			stats.Warnings++
			if status == ReportHealthy {
				status = ReportWarnings
			}
		}
	}

	return &AnalysisReport{
		Discrepancies: ranked,
		Statistics:    stats,
		Status:        status,
	}
}
