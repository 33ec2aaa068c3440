package models

// Candidate is a profile surfaced by the matching pipeline, carrying the
// subset of its availability that is still upcoming inside the ranking
// window and, when both sides have a café centroid, the distance between
// the two centroids in miles.
type Candidate struct {
	Profile
	AvailabilitySlots []AvailabilitySlot `json:"availability_slots"`
	Distance          *float64           `json:"distance"`
}
