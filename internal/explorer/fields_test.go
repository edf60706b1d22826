package explorer

import "testing"

func TestMapFor(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantLabel   string
		wantSubject string
	}{
		{
			name:        "announcements file name",
			input:       "announcements_equity_all.json",
			wantLabel:   "Announcements",
			wantSubject: "SUBJECT",
		},
		{
			name:        "event calendar",
			input:       "event_calendar_all.json",
			wantLabel:   "Event Calendar",
			wantSubject: "PURPOSE",
		},
		{
			name:        "crd",
			input:       "crd_all.json",
			wantLabel:   "CRD Credit Rating Database",
			wantSubject: "CREDIT RATING",
		},
		{
			name:        "credit rating takes precedence over crd prefix",
			input:       "credit_rating_sme_all.json",
			wantLabel:   "Credit Rating Reg.30",
			wantSubject: "CREDIT RATING",
		},
		{
			name:        "bare dataset name",
			input:       "announcements_mf",
			wantLabel:   "Announcements",
			wantSubject: "SUBJECT",
		},
		{
			name:        "unknown falls back to generic",
			input:       "mystery_all.json",
			wantLabel:   "mystery",
			wantSubject: "SUBJECT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm := MapFor(tt.input)
			if fm.Label != tt.wantLabel {
				t.Errorf("Label = %q, want %q", fm.Label, tt.wantLabel)
			}
			if fm.Subject != tt.wantSubject {
				t.Errorf("Subject = %q, want %q", fm.Subject, tt.wantSubject)
			}
		})
	}
}

func TestMapFor_AnnouncementArtifacts(t *testing.T) {
	fm := MapFor("announcements_debt_all.json")
	if len(fm.Artifacts) != 2 {
		t.Fatalf("Artifacts = %v, want ATTACHMENT and XBRL", fm.Artifacts)
	}
}
