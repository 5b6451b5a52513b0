package dto

// ModuleStatus is a per-module line of an admin progress report.
type ModuleStatus struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

// ProgressReport is the admin view of one user's progress.
type ProgressReport struct {
	User    UserResponse   `json:"user"`
	Modules []ModuleStatus `json:"modules"`
	Percent int            `json:"percent"`
}
