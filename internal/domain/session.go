package domain

import (
	"fmt"
	"regexp"
)

// WizardKind names one wizard flow. Each kind owns exactly one session.
type WizardKind string

var wizardKindPattern = regexp.MustCompile(`^[a-z][a-z0-9_]{0,31}$`)

func ParseWizardKind(s string) (WizardKind, error) {
	if !wizardKindPattern.MatchString(s) {
		return "", fmt.Errorf("invalid wizard kind %q", s)
	}
	return WizardKind(s), nil
}

// SessionKey is the persistence key of the kind's in-progress session.
func (k WizardKind) SessionKey() string { return string(k) + "_session" }

// OrderKey is the persistence key of the kind's latest order draft.
func (k WizardKind) OrderKey() string { return string(k) + "_order" }

type Page string

const (
	PageAddresses    Page = "addresses"
	PageTimeSchedule Page = "timeSchedule"
	PageConfirmation Page = "confirmation"
)

// Pages lists the wizard pages in flow order.
var Pages = []Page{PageAddresses, PageTimeSchedule, PageConfirmation}

func (p Page) Valid() bool {
	for _, v := range Pages {
		if v == p {
			return true
		}
	}
	return false
}

// Persisted in-progress wizard state. LastUpdateTimestamp is Unix
// milliseconds and never decreases.
type SessionRecord struct {
	WizardKind          WizardKind    `json:"wizardKind"`
	CurrentPage         Page          `json:"currentPage"`
	AddressData         *AddressData  `json:"addressData,omitempty"`
	ScheduleData        *ScheduleData `json:"scheduleData,omitempty"`
	LastUpdateTimestamp int64         `json:"lastUpdateTimestamp"`
}

// A partial update of a SessionRecord. Nil fields leave the stored value alone.
type SessionPatch struct {
	CurrentPage  *Page         `json:"currentPage,omitempty"`
	AddressData  *AddressData  `json:"addressData,omitempty"`
	ScheduleData *ScheduleData `json:"scheduleData,omitempty"`
}

// Merge applies the patch over r field by field.
func (r SessionRecord) Merge(p SessionPatch) SessionRecord {
	if p.CurrentPage != nil {
		r.CurrentPage = *p.CurrentPage
	}
	if p.AddressData != nil {
		ad := *p.AddressData
		r.AddressData = &ad
	}
	if p.ScheduleData != nil {
		sd := *p.ScheduleData
		r.ScheduleData = &sd
	}
	return r
}

// PagePatch is a patch that only moves the current page.
func PagePatch(p Page) SessionPatch {
	return SessionPatch{CurrentPage: &p}
}
