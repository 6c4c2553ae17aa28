package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"attendance-leave/internal/middleware"
	"attendance-leave/internal/repository"
	"attendance-leave/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	profiles      *service.ProfileService
	attendance    *service.AttendanceService
	leaves        *service.LeaveRequestService
	balances      *service.LeaveBalanceService
	notifications *service.NotificationService
	reports       *service.ReportService
	location      *time.Location
	now           func() time.Time
	logger        *logrus.Logger
}

func NewHandler(
	profiles *service.ProfileService,
	attendance *service.AttendanceService,
	leaves *service.LeaveRequestService,
	balances *service.LeaveBalanceService,
	notifications *service.NotificationService,
	reports *service.ReportService,
	location *time.Location,
	logger *logrus.Logger,
) *Handler {
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		profiles:      profiles,
		attendance:    attendance,
		leaves:        leaves,
		balances:      balances,
		notifications: notifications,
		reports:       reports,
		location:      location,
		now:           time.Now,
		logger:        logger,
	}
}

// RouterOptions carries what the router needs beyond the handler itself.
type RouterOptions struct {
	JWTSecret string
	JWTIssuer string
	Profiles  repository.ProfileRepository
}

// NewRouter wires every route onto a fresh gin engine.
func NewRouter(h *Handler, opts RouterOptions) *gin.Engine {
	registerValidators()

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.AccessLog(h.logger), gin.CustomRecovery(h.recover))

	r.GET("/health", h.health)

	authed := r.Group("/", middleware.Authenticate(opts.JWTSecret, opts.JWTIssuer))
	authed.POST("/profiles/register", h.registerProfile)

	member := authed.Group("/", middleware.LoadProfile(opts.Profiles, h.logger))
	{
		member.GET("/profiles/me", h.getMyProfile)
		member.PUT("/profiles/me", h.updateMyProfile)

		member.POST("/attendance/check-in", h.checkIn)
		member.POST("/attendance/check-out", h.checkOut)
		member.GET("/attendance/status", h.attendanceStatus)
		member.GET("/attendance/history", h.attendanceHistory)

		member.POST("/leaves/apply", h.applyLeave)
		member.GET("/leaves/my", h.myLeaves)
		member.DELETE("/leaves/cancel/:id", h.cancelLeave)

		member.GET("/leave-balances/my-balances", h.myBalances)

		member.GET("/notifications", h.listNotifications)
		member.PUT("/notifications/read-all", h.markAllNotificationsRead)
		member.PUT("/notifications/:id/read", h.markNotificationRead)
	}

	admin := member.Group("/", middleware.RequireAdmin())
	{
		admin.PUT("/leaves/:id/status", h.decideLeave)

		admin.GET("/admin/dashboard", h.dashboard)
		admin.GET("/admin/employees", h.listEmployees)
		admin.GET("/admin/attendance", h.attendanceByDate)
		admin.GET("/admin/leaves", h.listLeaves)
		admin.GET("/admin/leave-balances/:profileId", h.employeeBalances)
		admin.GET("/admin/reports/attendance", h.attendanceReport)
	}

	return r
}

func (h *Handler) health(c *gin.Context) {
	respond(c, http.StatusOK, gin.H{"status": "ok"})
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"data": data})
}

// fail maps a service error onto a status code. Unknown errors are logged and
// hidden from the caller.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case service.IsClientError(err):
		middleware.Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrLeaveNotFound),
		errors.Is(err, service.ErrProfileNotFound),
		errors.Is(err, service.ErrNotificationNotFound),
		errors.Is(err, service.ErrBalanceNotFound):
		middleware.Fail(c, http.StatusNotFound, err.Error())
	default:
		h.logger.WithError(err).WithFields(logrus.Fields{
			"request_id": middleware.GetRequestID(c),
			"path":       c.FullPath(),
		}).Error("Unhandled error")
		middleware.Fail(c, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	middleware.Fail(c, http.StatusBadRequest, "invalid request: "+err.Error())
}

func (h *Handler) recover(c *gin.Context, recovered any) {
	h.logger.WithFields(logrus.Fields{
		"request_id": middleware.GetRequestID(c),
		"panic":      recovered,
	}).Error("Panic while serving request")
	middleware.Fail(c, http.StatusInternalServerError, "internal server error")
}

func (h *Handler) today() time.Time {
	return h.now().In(h.location)
}

// yearParam reads ?year=, defaulting to the current year.
func (h *Handler) yearParam(c *gin.Context) (int, bool) {
	raw := c.Query("year")
	if raw == "" {
		return h.today().Year(), true
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 2000 || year > 2100 {
		middleware.Fail(c, http.StatusBadRequest, "year must be a four digit number")
		return 0, false
	}
	return year, true
}

func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		middleware.Fail(c, http.StatusBadRequest, name+" must be a positive integer")
		return 0, false
	}
	return uint(id), true
}
