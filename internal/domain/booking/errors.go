package booking

import "github.com/glowpoint/salon-api/internal/httperr"

// Stable business codes surfaced by the booking use cases.
var (
	ErrSlotTaken           = httperr.ErrBusiness("slot_taken")
	ErrServiceNotFound     = httperr.ErrBusiness("service_not_found")
	ErrSpecialistNotFound  = httperr.ErrBusiness("specialist_not_found")
	ErrAppointmentNotFound = httperr.ErrBusiness("appointment_not_found")
	ErrDuplicateSlot       = httperr.ErrBusiness("duplicate_slot")
)
