package cluster

// Observation is a single geotagged photo, as produced by the EXIF reader.
// Photos without GPS coordinates never reach this package.
type Observation struct {
	Filename  string  `json:"filename"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Timestamp string  `json:"timestamp"` // RFC 3339, empty if unrecoverable
}

// Member is an observation as recorded inside a cluster, annotated with its
// distance from the cluster center.
type Member struct {
	Filename            string  `json:"filename"`
	Latitude            float64 `json:"lat"`
	Longitude           float64 `json:"lon"`
	Timestamp           string  `json:"timestamp"`
	DistanceFromCenterM float64 `json:"distance_from_center_m"`
}

// Cluster is a group of observations connected by chains of pairwise
// proximity. The center is the arithmetic mean of member coordinates and the
// ID is a stable function of the center.
type Cluster struct {
	ID        string   `json:"cluster_id"`
	Latitude  float64  `json:"lat"`
	Longitude float64  `json:"lon"`
	RadiusM   float64  `json:"radius_m"`
	Members   []Member `json:"members"`
}
