package models

// RSVPStatus константы статусов заявок на события
const (
	RSVPStatusPending   = "pending"
	RSVPStatusApproved  = "approved"
	RSVPStatusDeclined  = "declined"
	RSVPStatusCancelled = "cancelled"
)

// JobStatus константы статусов объявлений о работе
const (
	JobStatusOpen   = "open"
	JobStatusClosed = "closed"
)

// ValidRSVPStatuses список валидных статусов RSVP
var ValidRSVPStatuses = map[string]struct{}{
	RSVPStatusPending:   {},
	RSVPStatusApproved:  {},
	RSVPStatusDeclined:  {},
	RSVPStatusCancelled: {},
}
