package models

// ActivityEntry is one row of the dashboard's recent-activity feed: a
// rating enriched with the names of its user and store.
type ActivityEntry struct {
	Rating
	User  RaterSummary      `json:"user"`
	Store RatedStoreSummary `json:"store"`
}

// DashboardStats is the admin dashboard payload. The three slices are
// filled best-effort: a failure computing any one of them leaves it empty
// without failing the whole response.
type DashboardStats struct {
	TotalUsers     int64             `json:"totalUsers"`
	TotalStores    int64             `json:"totalStores"`
	TotalRatings   int64             `json:"totalRatings"`
	UsersByRole    []RoleCount       `json:"usersByRole"`
	TopStores      []StoreWithRating `json:"topStores"`
	RecentActivity []ActivityEntry   `json:"recentActivity"`
}
