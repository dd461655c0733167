package request

import (
	"fmt"
	"strings"
)

// CheckInputRequest is the wire form of one firewall check.
type CheckInputRequest struct {
	Text          string `json:"text"`
	UserID        string `json:"user_id,omitempty"`
	SecurityLevel string `json:"security_level,omitempty"`
}

func (r *CheckInputRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return fmt.Errorf("text is required")
	}
	return nil
}
