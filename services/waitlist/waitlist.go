package waitlist

import (
	"time"

	"hotel-booking/errs"
	waitlistModel "hotel-booking/models/waitlist"
	"hotel-booking/utils"

	"gorm.io/gorm"
)

// Service manages waitlist entries for date ranges that could not be
// confirmed. Availability-retry processes consume the candidate list.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// AddParams describes the guest's unfulfilled intent.
type AddParams struct {
	GuestName     string
	GuestEmail    string
	GuestPhone    string
	RoomTypeID    uint
	CheckIn       time.Time
	CheckOut      time.Time
	FlexibleDates bool
	Priority      int
	ExpiresAt     time.Time
	NotifyByEmail bool
	NotifyBySMS   bool
}

// Add records a waitlist entry after the same date validation bookings get.
func (s *Service) Add(params AddParams) (*waitlistModel.Entry, error) {
	checkIn := utils.NormalizeDate(params.CheckIn)
	checkOut := utils.NormalizeDate(params.CheckOut)
	if !checkIn.Before(checkOut) {
		return nil, errs.ErrInvalidDateRange
	}

	entry := waitlistModel.Entry{
		GuestName:     params.GuestName,
		GuestEmail:    params.GuestEmail,
		GuestPhone:    params.GuestPhone,
		RoomTypeID:    params.RoomTypeID,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		FlexibleDates: params.FlexibleDates,
		Priority:      params.Priority,
		ExpiresAt:     params.ExpiresAt,
		NotifyByEmail: params.NotifyByEmail,
		NotifyBySMS:   params.NotifyBySMS,
		Status:        waitlistModel.StatusWaiting,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListCandidates returns unexpired waiting entries for a room type, highest
// priority first, oldest first within a priority.
func (s *Service) ListCandidates(roomTypeID uint) ([]waitlistModel.Entry, error) {
	var entries []waitlistModel.Entry
	err := s.db.
		Where("room_type_id = ? AND status = ? AND expires_at > ?",
			roomTypeID, waitlistModel.StatusWaiting, time.Now()).
		Order("priority desc, created_at asc").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ExpireSweep marks overdue waiting entries as expired and reports how many
// changed. Invoked periodically by the sweep job.
func (s *Service) ExpireSweep(now time.Time) (int64, error) {
	result := s.db.Model(&waitlistModel.Entry{}).
		Where("status = ? AND expires_at <= ?", waitlistModel.StatusWaiting, now).
		Update("status", waitlistModel.StatusExpired)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
