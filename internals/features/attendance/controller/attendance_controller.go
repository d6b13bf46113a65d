package controller

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"pelatihanku_backend/internals/features/attendance/dto"
	"pelatihanku_backend/internals/features/attendance/service"
	auditService "pelatihanku_backend/internals/features/audits/service"
	helper "pelatihanku_backend/internals/helpers"
)

var validateAttendance = validator.New()

type AttendanceController struct {
	Service *service.AttendanceService
	Audit   *auditService.AuditService
}

func NewAttendanceController(db *gorm.DB) *AttendanceController {
	return &AttendanceController{
		Service: service.NewAttendanceService(db),
		Audit:   auditService.NewAuditService(db),
	}
}

// =======================
// ✅ Mark Attendance
// =======================
func (ctrl *AttendanceController) MarkAttendance(c *fiber.Ctx) error {
	var body dto.MarkAttendanceRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateAttendance.Struct(&body); err != nil {
		return helper.ValidationError(c, err)
	}

	p, err := helper.GetPrincipal(c)
	if err != nil {
		return err
	}

	attendance, err := ctrl.Service.Mark(p, body)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	ctrl.Audit.Record(p, auditService.Entry{
		Action:    "MARK",
		Entity:    "attendance",
		EntityID:  &attendance.AttendanceID,
		NewValues: attendance,
		IPAddress: c.IP(),
		UserAgent: c.Get("User-Agent"),
	})

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Absensi berhasil dicatat",
		dto.ToAttendanceDTO(attendance, time.Now()))
}

// =======================
// ✏️ Update Attendance
// =======================
func (ctrl *AttendanceController) UpdateAttendance(c *fiber.Ctx) error {
	attendanceID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID absensi tidak valid")
	}

	var body dto.UpdateAttendanceRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateAttendance.Struct(&body); err != nil {
		return helper.ValidationError(c, err)
	}

	p, err := helper.GetPrincipal(c)
	if err != nil {
		return err
	}

	old, err := ctrl.Service.GetByID(p, attendanceID)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	attendance, err := ctrl.Service.Update(p, attendanceID, body)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	ctrl.Audit.Record(p, auditService.Entry{
		Action:    "UPDATE",
		Entity:    "attendance",
		EntityID:  &attendance.AttendanceID,
		OldValues: old,
		NewValues: attendance,
		IPAddress: c.IP(),
		UserAgent: c.Get("User-Agent"),
	})

	return helper.Success(c, "Absensi berhasil diperbarui", dto.ToAttendanceDTO(attendance, time.Now()))
}

// =======================
// 🔒 Lock Attendance (admin)
// =======================
func (ctrl *AttendanceController) LockAttendance(c *fiber.Ctx) error {
	attendanceID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID absensi tidak valid")
	}

	p, err := helper.GetPrincipal(c)
	if err != nil {
		return err
	}

	attendance, err := ctrl.Service.Lock(p, attendanceID)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	ctrl.Audit.Record(p, auditService.Entry{
		Action:    "LOCK",
		Entity:    "attendance",
		EntityID:  &attendance.AttendanceID,
		NewValues: attendance,
		IPAddress: c.IP(),
		UserAgent: c.Get("User-Agent"),
	})

	return helper.Success(c, "Absensi berhasil dikunci", dto.ToAttendanceDTO(attendance, time.Now()))
}

// =======================
// 📄 Get All Attendance (scoped + filter)
// Query: ?batch_id=&date=&start_date=&end_date=&page=&limit=
// =======================
func (ctrl *AttendanceController) GetAllAttendance(c *fiber.Ctx) error {
	p, err := helper.GetPrincipal(c)
	if err != nil {
		return err
	}

	paging := helper.ResolvePaging(c)
	query := dto.ListAttendanceQuery{Limit: paging.Limit, Offset: paging.Offset}

	if raw := c.Query("batch_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "batch_id tidak valid")
		}
		query.BatchID = &id
	}
	for param, dst := range map[string]**time.Time{
		"date":       &query.Date,
		"start_date": &query.StartDate,
		"end_date":   &query.EndDate,
	} {
		if raw := c.Query(param); raw != "" {
			t, err := time.Parse("2006-01-02", raw)
			if err != nil {
				return helper.Error(c, fiber.StatusBadRequest, param+" tidak valid")
			}
			*dst = &t
		}
	}

	rows, total, err := ctrl.Service.List(p, query)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	now := time.Now()
	resp := make([]dto.AttendanceDTO, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, dto.ToAttendanceDTO(row, now))
	}

	return helper.Success(c, "OK", fiber.Map{
		"attendances": resp,
		"pagination":  fiber.Map{"page": paging.Page, "limit": paging.Limit, "total": total},
	})
}

// =======================
// 🔍 Get Attendance by ID
// =======================
func (ctrl *AttendanceController) GetAttendanceByID(c *fiber.Ctx) error {
	attendanceID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID absensi tidak valid")
	}

	p, err := helper.GetPrincipal(c)
	if err != nil {
		return err
	}

	attendance, err := ctrl.Service.GetByID(p, attendanceID)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.Success(c, "OK", dto.ToAttendanceDTO(attendance, time.Now()))
}

// =======================
// 📊 Learner Report
// Path: /attendances/learner/:learnerId
// Query: ?batch_id=&start_date=&end_date=
// =======================
func (ctrl *AttendanceController) GetLearnerAttendance(c *fiber.Ctx) error {
	learnerID, err := uuid.Parse(c.Params("learnerId"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID learner tidak valid")
	}

	p, err := helper.GetPrincipal(c)
	if err != nil {
		return err
	}

	var batchID *uuid.UUID
	if raw := c.Query("batch_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "batch_id tidak valid")
		}
		batchID = &id
	}
	var start, end *time.Time
	if raw := c.Query("start_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "start_date tidak valid")
		}
		start = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "end_date tidak valid")
		}
		end = &t
	}

	report, err := ctrl.Service.LearnerReport(p, learnerID, batchID, start, end)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.Success(c, "OK", report)
}
