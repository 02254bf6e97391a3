package dto

// TokenResetResponse summarizes one run of the monthly reset job.
// Skipped users are reported here and in logs, never as a batch failure.
type TokenResetResponse struct {
	Total     int      `json:"total"`
	Succeeded int      `json:"succeeded"`
	Skipped   int      `json:"skipped"`
	SkippedID []string `json:"skipped_ids,omitempty"`
}
