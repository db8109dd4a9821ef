package httpdto

// VacancyRequest is used for vacancy create and update.
type VacancyRequest struct {
	Position     string   `json:"position" binding:"required"`
	Field        string   `json:"field"`
	Salary       *float64 `json:"salary"`
	Currency     string   `json:"currency"`
	Location     string   `json:"location"`
	Type         string   `json:"type"`
	Requirements []string `json:"requirements"`
}

// UpdateStatusRequest moves an application through its review states.
type UpdateStatusRequest struct {
	Status        string `json:"status" binding:"required"`
	Message       string `json:"message"`
	InterviewDate string `json:"interview_date"`
	InterviewTime string `json:"interview_time"`
}

// PreferencesRequest replaces a seeker's chosen job categories.
type PreferencesRequest struct {
	CategoryIDs []int64 `json:"category_ids" binding:"required"`
}

type BookmarkResponse struct {
	Bookmarked bool `json:"bookmarked"`
}

// JobListResponse wraps paginated vacancy search results.
type JobListResponse[T any] struct {
	Jobs  []T   `json:"jobs"`
	Total int64 `json:"total"`
}
