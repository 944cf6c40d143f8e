package model

import "strings"

type PatientFilters struct {
	SearchTerm string `json:"search" form:"search"`
	Status     string `json:"status" form:"status"`
}

// Search returns the trimmed search term.
func (f PatientFilters) Search() string {
	return strings.TrimSpace(f.SearchTerm)
}

// StatusFilter reports the status to filter on. Empty and "All" disable the filter.
func (f PatientFilters) StatusFilter() (Status, bool) {
	s := strings.TrimSpace(f.Status)
	if s == "" || s == StatusAll {
		return "", false
	}
	return Status(s), true
}
