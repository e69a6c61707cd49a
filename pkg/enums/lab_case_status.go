package enums

import "fmt"

// LabCaseStatus tracks outsourced lab work through its round trip.
type LabCaseStatus string

const (
	LabCaseStatusSent      LabCaseStatus = "sent"
	LabCaseStatusReceived  LabCaseStatus = "received"
	LabCaseStatusDelivered LabCaseStatus = "delivered"
)

var validLabCaseStatuses = []LabCaseStatus{
	LabCaseStatusSent,
	LabCaseStatusReceived,
	LabCaseStatusDelivered,
}

// String implements fmt.Stringer.
func (s LabCaseStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known LabCaseStatus.
func (s LabCaseStatus) IsValid() bool {
	for _, candidate := range validLabCaseStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseLabCaseStatus converts raw input into a LabCaseStatus.
func ParseLabCaseStatus(value string) (LabCaseStatus, error) {
	for _, candidate := range validLabCaseStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid lab case status %q", value)
}
