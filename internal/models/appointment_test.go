package models

import "testing"

func TestValidAppointmentTransition(t *testing.T) {
	cases := []struct {
		from  AppointmentStatus
		to    AppointmentStatus
		valid bool
	}{
		{AppointmentRequested, AppointmentScheduled, true},
		{AppointmentRequested, AppointmentDenied, true},
		{AppointmentRequested, AppointmentCancelled, true},
		{AppointmentRequested, AppointmentCompleted, false},
		{AppointmentScheduled, AppointmentCompleted, true},
		{AppointmentScheduled, AppointmentCancelled, true},
		{AppointmentScheduled, AppointmentDenied, false},
		{AppointmentCompleted, AppointmentScheduled, false},
		{AppointmentCancelled, AppointmentRequested, false},
		{AppointmentDenied, AppointmentScheduled, false},
	}

	for _, tt := range cases {
		if got := ValidAppointmentTransition(tt.from, tt.to); got != tt.valid {
			t.Fatalf("ValidAppointmentTransition(%q, %q)=%v, want %v", tt.from, tt.to, got, tt.valid)
		}
	}
}
