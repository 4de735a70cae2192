package constants

// Operator permissions
const (
	// Admin permissions
	PermAdminFull     = "hotel-booking.admin.full-permit"
	PermManagerFull   = "hotel-booking.manager.full-permit"
	PermFrontDeskFull = "hotel-booking.front-desk.full-permit"
	PermAccountsFull  = "hotel-booking.accounts.full-permit"

	// Special permissions
	PermAny = "any"
)

// Permission groups for convenience
var (
	// InventoryAdminPermissions can edit room types and units.
	InventoryAdminPermissions = []string{
		PermAdminFull,
		PermManagerFull,
	}

	// BookingDeskPermissions can create and mutate bookings.
	BookingDeskPermissions = []string{
		PermAdminFull,
		PermManagerFull,
		PermFrontDeskFull,
	}

	// LedgerPermissions can record and void payments.
	LedgerPermissions = []string{
		PermAdminFull,
		PermAccountsFull,
	}
)
