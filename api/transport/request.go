package transport

// TaskSubmitRequest carries the form fields of a create or edit submit.
// DueDate is RFC 3339 and optional; omitting it leaves an existing
// deadline unchanged.
type TaskSubmitRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date,omitempty"`
}

// ThemeRequest toggles the persisted dark-mode flag.
type ThemeRequest struct {
	DarkMode bool `json:"dark_mode"`
}
