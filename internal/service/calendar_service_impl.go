package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/svelazco/cronos/internal/calendar"
	"github.com/svelazco/cronos/internal/repository"
)

type calendarService struct {
	calendars repository.CalendarRepo
}

func NewCalendarService(calendars repository.CalendarRepo) CalendarService {
	return &calendarService{calendars: calendars}
}

func (s *calendarService) Create(ctx context.Context, c *calendar.WorkingCalendar) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.HoursPerDay == 0 {
		c.HoursPerDay = calendar.DefaultHoursPerDay
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	return s.calendars.Create(ctx, c)
}

func (s *calendarService) GetByID(ctx context.Context, id string) (*calendar.WorkingCalendar, error) {
	return s.calendars.GetByID(ctx, id)
}

func (s *calendarService) List(ctx context.Context) ([]*calendar.WorkingCalendar, error) {
	return s.calendars.List(ctx)
}

func (s *calendarService) Update(ctx context.Context, c *calendar.WorkingCalendar) error {
	c.UpdatedAt = time.Now().UTC()
	return s.calendars.Update(ctx, c)
}

func (s *calendarService) Delete(ctx context.Context, id string) error {
	return s.calendars.Delete(ctx, id)
}
