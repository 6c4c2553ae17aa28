package service

import (
	"context"
	"fmt"
	"time"

	"attendance-leave/internal/models"
	"attendance-leave/internal/repository"
	"attendance-leave/pkg/workdays"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type DashboardSummary struct {
	Date           string `json:"date"`
	TotalEmployees int64  `json:"total_employees"`
	CheckedIn      int64  `json:"checked_in"`
	CheckedOut     int64  `json:"checked_out"`
	NotArrived     int64  `json:"not_arrived"`
	OnLeave        int64  `json:"on_leave"`
	PendingLeaves  int64  `json:"pending_leaves"`
}

// ReportService backs the admin dashboard and downloadable reports.
type ReportService struct {
	repos    *repository.Repositories
	location *time.Location
	logger   *logrus.Logger
}

func NewReportService(repos *repository.Repositories, location *time.Location, logger *logrus.Logger) *ReportService {
	if location == nil {
		location = time.UTC
	}
	return &ReportService{repos: repos, location: location, logger: logger}
}

func (s *ReportService) Dashboard(ctx context.Context, now time.Time) (*DashboardSummary, error) {
	date := workdays.FormatDate(now.In(s.location))

	employees, err := s.repos.Profiles.ListByRole(ctx, models.RoleEmployee)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	isEmployee := make(map[string]bool, len(employees))
	for _, p := range employees {
		isEmployee[p.ID] = true
	}

	states, err := s.repos.Attendance.StatesByRole(ctx, date, models.RoleEmployee)
	if err != nil {
		return nil, fmt.Errorf("load attendance: %w", err)
	}

	onLeave, err := s.repos.Leaves.ListApprovedOn(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("list leave: %w", err)
	}

	pending, err := s.repos.Leaves.CountByStatus(ctx, models.LeavePending)
	if err != nil {
		return nil, fmt.Errorf("count pending leave: %w", err)
	}

	summary := &DashboardSummary{
		Date:           date,
		TotalEmployees: int64(len(employees)),
		PendingLeaves:  pending,
	}

	// An employee counts once towards "accounted for", even when on leave
	// and checked in on the same day.
	accounted := make(map[string]struct{}, len(states)+len(onLeave))
	for id, state := range states {
		switch state {
		case models.StateCheckedIn:
			summary.CheckedIn++
		case models.StateCheckedOut:
			summary.CheckedOut++
		}
		accounted[id] = struct{}{}
	}

	leaveProfiles := make(map[string]struct{}, len(onLeave))
	for _, r := range onLeave {
		if !isEmployee[r.ProfileID] {
			continue
		}
		leaveProfiles[r.ProfileID] = struct{}{}
		accounted[r.ProfileID] = struct{}{}
	}
	summary.OnLeave = int64(len(leaveProfiles))
	summary.NotArrived = summary.TotalEmployees - int64(len(accounted))

	return summary, nil
}

var (
	attendanceHeader = []interface{}{"Employee Code", "Name", "Department", "Date", "Check In", "Check Out", "Worked", "State", "Auto Check-out"}
	balanceHeader    = []interface{}{"Employee Code", "Name", "Leave Type", "Total", "Used", "Remaining"}
)

// MonthlyAttendanceReport builds a workbook with one Attendance row per record
// in the month and the year's leave balances.
func (s *ReportService) MonthlyAttendanceReport(ctx context.Context, year, month int) (*excelize.File, error) {
	if month < 1 || month > 12 || year < 2000 || year > 2100 {
		return nil, ErrInvalidDate
	}

	profiles, err := s.repos.Profiles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	byID := make(map[string]*models.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	from, to := workdays.MonthBounds(year, month)
	records, err := s.repos.Attendance.ListBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}

	balances, err := s.repos.Balances.ListByYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}

	f := excelize.NewFile()

	const attendanceSheet = "Attendance"
	if err := f.SetSheetName("Sheet1", attendanceSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(attendanceSheet, "A1", &attendanceHeader); err != nil {
		return nil, err
	}

	for i, r := range records {
		p := byID[r.ProfileID]
		if p == nil {
			p = &models.Profile{ID: r.ProfileID}
		}

		checkOut := ""
		if r.CheckOut != nil {
			checkOut = r.CheckOut.In(s.location).Format("15:04")
		}

		row := []interface{}{
			p.EmployeeCode, p.FullName, p.Department, r.Date,
			r.CheckIn.In(s.location).Format("15:04"), checkOut,
			r.Duration(), models.CurrentState(r).Label(), r.AutoCheckedOut,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(attendanceSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	const balanceSheet = "Leave Balances"
	if _, err := f.NewSheet(balanceSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(balanceSheet, "A1", &balanceHeader); err != nil {
		return nil, err
	}

	for i, b := range balances {
		p := byID[b.ProfileID]
		if p == nil {
			p = &models.Profile{ID: b.ProfileID}
		}
		row := []interface{}{p.EmployeeCode, p.FullName, string(b.LeaveType), b.TotalDays, b.UsedDays, b.RemainingDays}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(balanceSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	s.logger.WithFields(logrus.Fields{
		"year":     year,
		"month":    month,
		"records":  len(records),
		"balances": len(balances),
	}).Info("Monthly attendance report generated")

	return f, nil
}
