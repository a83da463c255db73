// Copyright (c) Microsoft. All rights reserved.

package alltools

// UsageDetails holds token consumption statistics for a model response.
type UsageDetails struct {
	InputTokens  int `json:"prompt_tokens,omitempty"`
	OutputTokens int `json:"completion_tokens,omitempty"`
	TotalTokens  int `json:"total_tokens,omitempty"`
}

// Add accumulates other into u.
func (u *UsageDetails) Add(other UsageDetails) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.TotalTokens += other.TotalTokens
}
