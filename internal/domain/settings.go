package domain

import "time"

// SchedulingSettings настройки расписания салона (одна строка на салон)
type SchedulingSettings struct {
	BlockSizeMinutes        int // шаг сетки начала слотов
	AdvanceBookingDays      int // 0 = без ограничения
	MinBookingNoticeMinutes int
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// DefaultSchedulingSettings настройки, если салон ничего не задал
func DefaultSchedulingSettings() *SchedulingSettings {
	return &SchedulingSettings{
		BlockSizeMinutes:        DefaultBlockSizeMinutes,
		AdvanceBookingDays:      DefaultAdvanceBookingDays,
		MinBookingNoticeMinutes: DefaultMinBookingNoticeMinutes,
	}
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance bookings can be made
func (s *SchedulingSettings) HasAdvanceBookingLimit() bool {
	return s.AdvanceBookingDays > 0
}
