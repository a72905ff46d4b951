// Package models defines the geographic reference data: districts and the
// upazilas (sub-districts) inside them.
package models

// District is a top-level administrative area. IDs come from the seed
// dataset and are stable strings, not generated.
type District struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	BnName string `json:"bn_name"`
}

// Upazila is a sub-district belonging to exactly one district.
type Upazila struct {
	ID         string `json:"id"`
	DistrictID string `json:"district_id"`
	Name       string `json:"name"`
	BnName     string `json:"bn_name"`
}
