package services

import (
	"context"
	"errors"
	"time"

	"memberhub/internal/core/domain"
	"memberhub/internal/pkg/dateutil"

	"gorm.io/gorm"
)

// ReportService builds dashboard and report aggregates straight from the
// database
type ReportService struct {
	db *gorm.DB
}

// NewReportService creates a new report service
func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// KeyCount is one bucket of a grouped count
type KeyCount struct {
	Key   string `gorm:"column:group_key" json:"key"`
	Count int64  `gorm:"column:count" json:"count"`
}

// KeyAmount is one bucket of a grouped sum
type KeyAmount struct {
	Key   string  `gorm:"column:group_key" json:"key"`
	Count int64   `gorm:"column:count" json:"count"`
	Total float64 `gorm:"column:total" json:"total"`
}

// ZoneCount is the active member count of one zone
type ZoneCount struct {
	ZoneID string `gorm:"column:zone_id" json:"zoneId"`
	Name   string `gorm:"column:name" json:"name"`
	Count  int64  `gorm:"column:count" json:"count"`
}

// PaymentSummary is a compact payment row for dashboards
type PaymentSummary struct {
	ID          string    `json:"id"`
	PaymentID   string    `json:"paymentId"`
	MemberName  string    `json:"memberName"`
	Amount      float64   `json:"amount"`
	PaymentType string    `json:"paymentType"`
	Status      string    `json:"status"`
	PaymentDate time.Time `json:"paymentDate"`
}

// ============================================================
// Dashboard
// ============================================================

// DashboardData is the admin landing page
type DashboardData struct {
	// Member statistics
	TotalMembers     int64 `json:"totalMembers"`
	ActiveMembers    int64 `json:"activeMembers"`
	ExpiredMembers   int64 `json:"expiredMembers"`
	SuspendedMembers int64 `json:"suspendedMembers"`
	ExpiringSoon     int64 `json:"expiringSoon"`
	TotalZones       int64 `json:"totalZones"`

	// Event statistics
	UpcomingEvents  int64 `json:"upcomingEvents"`
	EventsThisMonth int64 `json:"eventsThisMonth"`

	// Payment statistics
	PaymentsThisMonth float64 `json:"paymentsThisMonth"`
	PaymentsLastMonth float64 `json:"paymentsLastMonth"`

	// Breakdowns
	MembersByStatus []KeyCount  `json:"membersByStatus"`
	MembersByType   []KeyCount  `json:"membersByType"`
	MembersByZone   []ZoneCount `json:"membersByZone"`

	// Recent activity
	RecentPayments []PaymentSummary `json:"recentPayments"`
}

// GetDashboard returns the admin dashboard
func (s *ReportService) GetDashboard(ctx context.Context) (*DashboardData, error) {
	data := &DashboardData{}
	var errs []error
	check := func(tx *gorm.DB) {
		if tx.Error != nil {
			errs = append(errs, tx.Error)
		}
	}

	now := dateutil.Now()
	thisMonth := dateutil.StartOfMonth(now)
	nextMonth := thisMonth.AddDate(0, 1, 0)
	lastMonth := thisMonth.AddDate(0, -1, 0)

	// Member counts
	check(s.members(ctx).Count(&data.TotalMembers))
	check(s.members(ctx).Where("status = ?", domain.MemberActive).Count(&data.ActiveMembers))
	check(s.members(ctx).Where("status = ?", domain.MemberExpired).Count(&data.ExpiredMembers))
	check(s.members(ctx).Where("status = ?", domain.MemberSuspended).Count(&data.SuspendedMembers))
	check(s.members(ctx).
		Where("status = ? AND renewal_date >= ? AND renewal_date <= ?", domain.MemberActive, now, now.AddDate(0, 0, defaultExpiringDays)).
		Count(&data.ExpiringSoon))
	check(s.db.WithContext(ctx).Table("zones").Where("is_active = ?", true).Count(&data.TotalZones))

	// Event counts
	check(s.events(ctx).Where("status = ? AND event_date >= ?", domain.EventUpcoming, now).Count(&data.UpcomingEvents))
	check(s.events(ctx).Where("event_date >= ? AND event_date < ?", thisMonth, nextMonth).Count(&data.EventsThisMonth))

	// Completed payment totals
	check(s.completedSum(ctx, thisMonth, nextMonth, &data.PaymentsThisMonth))
	check(s.completedSum(ctx, lastMonth, thisMonth, &data.PaymentsLastMonth))

	// Breakdowns
	check(s.groupMembers(ctx, "status", &data.MembersByStatus))
	check(s.groupMembers(ctx, "membership_type", &data.MembersByType))
	check(s.membersByZone(ctx, &data.MembersByZone))

	// Recent payments
	check(s.db.WithContext(ctx).Table("payments").
		Select("payments.id, payments.payment_id, members.name AS member_name, payments.amount, payments.payment_type, payments.status, payments.payment_date").
		Joins("LEFT JOIN members ON payments.member_id = members.id").
		Where("payments.is_active = ?", true).
		Order("payments.payment_date DESC").
		Limit(10).
		Scan(&data.RecentPayments))

	if err := errors.Join(errs...); err != nil {
		return nil, internal(err)
	}

	data.MembersByStatus = nonNil(data.MembersByStatus)
	data.MembersByType = nonNil(data.MembersByType)
	data.MembersByZone = nonNil(data.MembersByZone)
	data.RecentPayments = nonNil(data.RecentPayments)
	return data, nil
}

// ============================================================
// Membership report
// ============================================================

// MembershipReportInput narrows the membership report to one zone
type MembershipReportInput struct {
	ZoneID string `query:"zone" validate:"omitempty,objectid"`
}

// MonthCount is the number of joins in one calendar month
type MonthCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// MembershipReport summarizes the member base
type MembershipReport struct {
	TotalMembers        int64        `json:"totalMembers"`
	NewMembersThisMonth int64        `json:"newMembersThisMonth"`
	ExpiringIn30Days    int64        `json:"expiringIn30Days"`
	ByStatus            []KeyCount   `json:"byStatus"`
	ByType              []KeyCount   `json:"byType"`
	ByZone              []ZoneCount  `json:"byZone"`
	JoinsByMonth        []MonthCount `json:"joinsByMonth"`
}

// GetMembershipReport returns membership counts and the join trend of the
// last 12 months
func (s *ReportService) GetMembershipReport(ctx context.Context, input *MembershipReportInput) (*MembershipReport, error) {
	report := &MembershipReport{}
	var errs []error
	check := func(tx *gorm.DB) {
		if tx.Error != nil {
			errs = append(errs, tx.Error)
		}
	}

	scoped := func() *gorm.DB {
		q := s.members(ctx)
		if input.ZoneID != "" {
			q = q.Where("zone_id = ?", input.ZoneID)
		}
		return q
	}

	now := dateutil.Now()
	thisMonth := dateutil.StartOfMonth(now)
	trendStart := thisMonth.AddDate(0, -11, 0)

	check(scoped().Count(&report.TotalMembers))
	check(scoped().Where("join_date >= ?", thisMonth).Count(&report.NewMembersThisMonth))
	check(scoped().
		Where("status = ? AND renewal_date >= ? AND renewal_date <= ?", domain.MemberActive, now, now.AddDate(0, 0, defaultExpiringDays)).
		Count(&report.ExpiringIn30Days))
	check(scoped().Select("status AS group_key, COUNT(*) AS count").Group("status").Scan(&report.ByStatus))
	check(scoped().Select("membership_type AS group_key, COUNT(*) AS count").Group("membership_type").Scan(&report.ByType))
	check(s.membersByZone(ctx, &report.ByZone))

	// Bucketed in Go so the query stays portable across dialects
	var joinDates []time.Time
	check(scoped().Where("join_date >= ?", trendStart).Pluck("join_date", &joinDates))

	if err := errors.Join(errs...); err != nil {
		return nil, internal(err)
	}

	report.JoinsByMonth = bucketByMonth(joinDates, trendStart, 12)
	report.ByStatus = nonNil(report.ByStatus)
	report.ByType = nonNil(report.ByType)
	report.ByZone = nonNil(report.ByZone)
	return report, nil
}

// ============================================================
// Payment report
// ============================================================

// DateRangeInput bounds a report by yyyy-mm-dd dates, both inclusive
type DateRangeInput struct {
	StartDate string `query:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `query:"endDate" validate:"omitempty,datetime=2006-01-02"`
}

// PaymentReport summarizes payments in a window
type PaymentReport struct {
	StartDate      *time.Time  `json:"startDate,omitempty"`
	EndDate        *time.Time  `json:"endDate,omitempty"`
	TotalPayments  int64       `json:"totalPayments"`
	CompletedTotal float64     `json:"completedTotal"`
	ByType         []KeyAmount `json:"byType"`
	ByMethod       []KeyAmount `json:"byMethod"`
	ByStatus       []KeyAmount `json:"byStatus"`
}

// GetPaymentReport groups payments by type, method and status
func (s *ReportService) GetPaymentReport(ctx context.Context, input *DateRangeInput) (*PaymentReport, error) {
	from, to := parseDateRange(input.StartDate, input.EndDate)
	report := &PaymentReport{StartDate: from, EndDate: to}
	var errs []error
	check := func(tx *gorm.DB) {
		if tx.Error != nil {
			errs = append(errs, tx.Error)
		}
	}

	scoped := func() *gorm.DB {
		q := s.db.WithContext(ctx).Table("payments").Where("is_active = ?", true)
		if from != nil {
			q = q.Where("payment_date >= ?", *from)
		}
		if to != nil {
			q = q.Where("payment_date <= ?", *to)
		}
		return q
	}
	grouped := func(column string, dest *[]KeyAmount) {
		check(scoped().
			Select(column + " AS group_key, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
			Group(column).
			Order("total DESC").
			Scan(dest))
	}

	check(scoped().Count(&report.TotalPayments))
	check(scoped().Where("status = ?", domain.PaymentCompleted).Select("COALESCE(SUM(amount), 0)").Scan(&report.CompletedTotal))
	grouped("payment_type", &report.ByType)
	grouped("payment_method", &report.ByMethod)
	grouped("status", &report.ByStatus)

	if err := errors.Join(errs...); err != nil {
		return nil, internal(err)
	}

	report.ByType = nonNil(report.ByType)
	report.ByMethod = nonNil(report.ByMethod)
	report.ByStatus = nonNil(report.ByStatus)
	return report, nil
}

// ============================================================
// Event report
// ============================================================

// EventRegistrationCount is one event with its registration counts
type EventRegistrationCount struct {
	ID            string    `gorm:"column:id" json:"id"`
	Title         string    `gorm:"column:title" json:"title"`
	EventDate     time.Time `gorm:"column:event_date" json:"eventDate"`
	Registrations int64     `gorm:"column:registrations" json:"registrations"`
	Attended      int64     `gorm:"column:attended" json:"attended"`
}

// EventReport summarizes events in a window
type EventReport struct {
	StartDate          *time.Time               `json:"startDate,omitempty"`
	EndDate            *time.Time               `json:"endDate,omitempty"`
	TotalEvents        int64                    `json:"totalEvents"`
	ByStatus           []KeyCount               `json:"byStatus"`
	TotalRegistrations int64                    `json:"totalRegistrations"`
	Attended           int64                    `json:"attended"`
	NoShow             int64                    `json:"noShow"`
	TopEvents          []EventRegistrationCount `json:"topEvents"`
}

// GetEventReport counts events and registrations
func (s *ReportService) GetEventReport(ctx context.Context, input *DateRangeInput) (*EventReport, error) {
	from, to := parseDateRange(input.StartDate, input.EndDate)
	report := &EventReport{StartDate: from, EndDate: to}
	var errs []error
	check := func(tx *gorm.DB) {
		if tx.Error != nil {
			errs = append(errs, tx.Error)
		}
	}

	scoped := func() *gorm.DB {
		q := s.events(ctx)
		if from != nil {
			q = q.Where("events.event_date >= ?", *from)
		}
		if to != nil {
			q = q.Where("events.event_date <= ?", *to)
		}
		return q
	}
	attendees := func() *gorm.DB {
		return scoped().Joins("JOIN event_attendees ON event_attendees.event_id = events.id")
	}

	check(scoped().Count(&report.TotalEvents))
	check(scoped().Select("status AS group_key, COUNT(*) AS count").Group("status").Scan(&report.ByStatus))
	check(attendees().Count(&report.TotalRegistrations))
	check(attendees().Where("event_attendees.attendance_status = ?", domain.AttendanceAttended).Count(&report.Attended))
	check(attendees().Where("event_attendees.attendance_status = ?", domain.AttendanceNoShow).Count(&report.NoShow))
	check(scoped().
		Select(`events.id, events.title, events.event_date,
			COUNT(event_attendees.id) AS registrations,
			COALESCE(SUM(CASE WHEN event_attendees.attendance_status = ? THEN 1 ELSE 0 END), 0) AS attended`, domain.AttendanceAttended).
		Joins("LEFT JOIN event_attendees ON event_attendees.event_id = events.id").
		Group("events.id, events.title, events.event_date").
		Order("registrations DESC").
		Limit(5).
		Scan(&report.TopEvents))

	if err := errors.Join(errs...); err != nil {
		return nil, internal(err)
	}

	report.ByStatus = nonNil(report.ByStatus)
	report.TopEvents = nonNil(report.TopEvents)
	return report, nil
}

// ============================================================
// helpers
// ============================================================

func (s *ReportService) members(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Table("members").Where("members.is_active = ?", true)
}

func (s *ReportService) events(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Table("events").Where("events.is_active = ?", true)
}

func (s *ReportService) completedSum(ctx context.Context, from, to time.Time, dest *float64) *gorm.DB {
	return s.db.WithContext(ctx).Table("payments").
		Where("is_active = ? AND status = ? AND payment_date >= ? AND payment_date < ?", true, domain.PaymentCompleted, from, to).
		Select("COALESCE(SUM(amount), 0)").
		Scan(dest)
}

func (s *ReportService) groupMembers(ctx context.Context, column string, dest *[]KeyCount) *gorm.DB {
	return s.members(ctx).
		Select(column + " AS group_key, COUNT(*) AS count").
		Group(column).
		Order("count DESC").
		Scan(dest)
}

func (s *ReportService) membersByZone(ctx context.Context, dest *[]ZoneCount) *gorm.DB {
	return s.db.WithContext(ctx).Table("zones").
		Select("zones.id AS zone_id, zones.name, COUNT(members.id) AS count").
		Joins("LEFT JOIN members ON members.zone_id = zones.id AND members.is_active = ?", true).
		Where("zones.is_active = ?", true).
		Group("zones.id, zones.name").
		Order("count DESC").
		Scan(dest)
}

// bucketByMonth counts dates per calendar month for months months starting
// at start, labelled yyyy-mm
func bucketByMonth(dates []time.Time, start time.Time, months int) []MonthCount {
	out := make([]MonthCount, months)
	index := make(map[string]int, months)
	for i := 0; i < months; i++ {
		label := start.AddDate(0, i, 0).Format("2006-01")
		out[i] = MonthCount{Month: label}
		index[label] = i
	}
	for _, d := range dates {
		if i, ok := index[d.UTC().Format("2006-01")]; ok {
			out[i].Count++
		}
	}
	return out
}
