package models

import "testing"

func TestJobIsPublic(t *testing.T) {
	tests := []struct {
		name     string
		active   bool
		approved bool
		want     bool
	}{
		{"active and approved", true, true, true},
		{"active but unapproved", true, false, false},
		{"approved but inactive", false, true, false},
		{"neither", false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := Job{IsActive: tt.active, IsApproved: tt.approved}
			if got := j.IsPublic(); got != tt.want {
				t.Errorf("IsPublic() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidJobType(t *testing.T) {
	for _, v := range JobTypes {
		if !ValidJobType(v) {
			t.Errorf("ValidJobType(%q) = false", v)
		}
	}
	for _, v := range []string{"", "fulltime", "Full_Time", "temp"} {
		if ValidJobType(v) {
			t.Errorf("ValidJobType(%q) = true", v)
		}
	}
}

func TestValidSalaryBand(t *testing.T) {
	for _, v := range SalaryBands {
		if !ValidSalaryBand(v) {
			t.Errorf("ValidSalaryBand(%q) = false", v)
		}
	}
	for _, v := range []string{"", "100000", "10000-30001"} {
		if ValidSalaryBand(v) {
			t.Errorf("ValidSalaryBand(%q) = true", v)
		}
	}
}
