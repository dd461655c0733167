package response

// CheckInputOutput mirrors the original firewall response contract:
// status is "allowed" or "blocked", reason is present only on blocks,
// response only on allowed requests whose generation succeeded.
type CheckInputOutput struct {
	Status   string   `json:"status"`
	Reason   string   `json:"reason,omitempty"`
	Score    *float64 `json:"score,omitempty"`
	Response string   `json:"response,omitempty"`
}
