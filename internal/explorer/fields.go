// Package explorer is the interactive terminal explorer over persisted
// datasets. One parameterized engine serves every dataset kind; the
// per-kind differences are captured in a FieldMap.
package explorer

import "strings"

// FieldMap names the fields a dataset kind uses for searching and
// statistics.
type FieldMap struct {
	// Label is the human name shown in headings.
	Label string

	// Primary are the identity fields searched together (company name,
	// trading symbol).
	Primary []string

	// Subject is the keyword-search field.
	Subject string

	// Date is the date-search field.
	Date string

	// Artifacts are fields that may carry downloadable attachments.
	Artifacts []string

	// Tally are the fields broken down in the statistics screen.
	Tally []string
}

// MapFor picks the field map for a dataset by its name or file name.
// Unknown datasets get a generic map searching every configured slot by
// the announcement conventions.
func MapFor(name string) FieldMap {
	base := strings.TrimSuffix(name, "_all.json")

	switch {
	case strings.HasPrefix(base, "event_calendar"):
		return FieldMap{
			Label:   "Event Calendar",
			Primary: []string{"COMPANY", "SYMBOL"},
			Subject: "PURPOSE",
			Date:    "DATE",
			Tally:   []string{"PURPOSE", "DATE"},
		}
	case strings.HasPrefix(base, "announcements"):
		return FieldMap{
			Label:     "Announcements",
			Primary:   []string{"COMPANY NAME", "SYMBOL"},
			Subject:   "SUBJECT",
			Date:      "BROADCAST DATE/TIME",
			Artifacts: []string{"ATTACHMENT", "XBRL"},
			Tally:     []string{"SUBJECT"},
		}
	case strings.HasPrefix(base, "credit_rating"):
		return FieldMap{
			Label:   "Credit Rating Reg.30",
			Primary: []string{"COMPANY NAME", "SYMBOL"},
			Subject: "CREDIT RATING",
			Date:    "DATE OF INTIMATION",
			Tally:   []string{"CREDIT RATING", "CURRENT ACTION", "CREDIT TYPE"},
		}
	case strings.HasPrefix(base, "crd"):
		return FieldMap{
			Label:   "CRD Credit Rating Database",
			Primary: []string{"COMPANY NAME"},
			Subject: "CREDIT RATING",
			Date:    "RATING DATE",
			Tally:   []string{"NAME OF CREDIT RATING AGENCY", "CREDIT RATING", "RATING ACTION"},
		}
	default:
		return FieldMap{
			Label:   base,
			Primary: []string{"COMPANY NAME", "SYMBOL"},
			Subject: "SUBJECT",
			Date:    "DATE",
			Tally:   []string{"SUBJECT"},
		}
	}
}
