package domain

// Default configuration values
const (
	DefaultBlockSizeMinutes        = 15
	DefaultAdvanceBookingDays      = 0  // 0 = unlimited
	DefaultMinBookingNoticeMinutes = 60 // 1 hour
)

// Business validation constants
const (
	MinBlockSizeMinutes         = 5
	MaxBlockSizeMinutes         = 240
	MinAdvanceBookingDays       = 0
	MaxAdvanceBookingDays       = 365 // 1 year
	MinBookingNoticeMinutes     = 0
	MaxBookingNoticeMinutes     = 10080 // 1 week
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxServicesPerBooking       = 10
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы записей, которые занимают время мастера и станции
var ActiveStatuses = []AppointmentStatus{
	StatusScheduled,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
}

// Типы событий, публикуемых в брокер
const (
	EventGroupCreated         = "appointment_group.created"
	EventGroupCancelled       = "appointment_group.cancelled"
	EventAppointmentStatus    = "appointment.status_changed"
	EventsChannelAppointments = "salon.appointments"
)
