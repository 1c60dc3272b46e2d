package model

// DashboardStats summarizes the portfolio for the admin dashboard.
type DashboardStats struct {
	ProjectCount   int        `json:"project_count"`
	ImageCount     int        `json:"image_count"`
	RecentProjects []*Project `json:"recent_projects"`
}
