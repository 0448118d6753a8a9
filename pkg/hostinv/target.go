package hostinv

import "github.com/railgraph/railgraph/pkg/policygate"

// TargetInfo projects h into the policygate.TargetInfo shape policy
// evaluation consumes, so a policy can reason about which host a station's
// work is destined for without depending on hostinv directly.
func (h *Host) TargetInfo() *policygate.TargetInfo {
	return &policygate.TargetInfo{
		ID:       h.ID,
		Type:     "ssh",
		Hostname: h.Address,
		Labels:   h.Labels,
	}
}
