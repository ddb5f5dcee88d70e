package models

import "testing"

func TestParseApplicationStatus(t *testing.T) {
	for _, valid := range ApplicationStatuses {
		got, err := ParseApplicationStatus(valid)
		if err != nil {
			t.Errorf("ParseApplicationStatus(%q) returned error: %v", valid, err)
		}
		if got != valid {
			t.Errorf("ParseApplicationStatus(%q) = %q", valid, got)
		}
	}

	for _, invalid := range []string{"", "Pending", "PENDING", "approved", "in_review", "withdrawn"} {
		if _, err := ParseApplicationStatus(invalid); err == nil {
			t.Errorf("ParseApplicationStatus(%q) should fail", invalid)
		}
	}
}
