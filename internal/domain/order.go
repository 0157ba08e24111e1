package domain

import "time"

type OrderStatus string

const (
	OrderDraftStatus OrderStatus = "draft"
	OrderConfirmed   OrderStatus = "confirmed"
	OrderCompleted   OrderStatus = "completed"
	OrderCancelled   OrderStatus = "cancelled"
)

// An order created from a fully validated wizard. Only drafts are created
// by this service; the remaining statuses belong to the order service.
type OrderDraft struct {
	ID           string        `json:"id"`
	WizardKind   WizardKind    `json:"wizardKind"`
	AddressData  AddressData   `json:"addressData"`
	ScheduleData *ScheduleData `json:"scheduleData,omitempty"`
	Status       OrderStatus   `json:"status"`
	CreatedAt    time.Time     `json:"createdAt"`
}
