package controller

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	attendanceDto "pelatihanku_backend/internals/features/attendance/dto"
	auditService "pelatihanku_backend/internals/features/audits/service"
	"pelatihanku_backend/internals/features/dailyupdates/dto"
	"pelatihanku_backend/internals/features/dailyupdates/service"
	helper "pelatihanku_backend/internals/helpers"
)

var validateDailyUpdate = validator.New()

type DailyUpdateController struct {
	Service *service.DailyUpdateService
	Audit   *auditService.AuditService
}

func NewDailyUpdateController(db *gorm.DB) *DailyUpdateController {
	return &DailyUpdateController{
		Service: service.NewDailyUpdateService(db),
		Audit:   auditService.NewAuditService(db),
	}
}

// =======================
// ➕ Create Daily Update
// =======================
func (ctrl *DailyUpdateController) CreateDailyUpdate(c *fiber.Ctx) error {
	var body dto.CreateDailyUpdateRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateDailyUpdate.Struct(&body); err != nil {
		return helper.ValidationError(c, err)
	}

	p, err := helper.GetPrincipal(c)
	if err != nil {
		return err
	}

	update, err := ctrl.Service.Create(p, body)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	ctrl.Audit.Record(p, auditService.Entry{
		Action:    "CREATE",
		Entity:    "daily_update",
		EntityID:  &update.DailyUpdateID,
		NewValues: update,
		IPAddress: c.IP(),
		UserAgent: c.Get("User-Agent"),
	})

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Laporan harian berhasil dibuat", dto.ToDailyUpdateDTO(update))
}

// =======================
// ✏️ Update Daily Update
// =======================
func (ctrl *DailyUpdateController) UpdateDailyUpdate(c *fiber.Ctx) error {
	updateID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID laporan tidak valid")
	}

	var body dto.UpdateDailyUpdateRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateDailyUpdate.Struct(&body); err != nil {
		return helper.ValidationError(c, err)
	}

	p, err := helper.GetPrincipal(c)
	if err != nil {
		return err
	}

	old, _, err := ctrl.Service.GetByID(p, updateID)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	update, err := ctrl.Service.Update(p, updateID, body)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	ctrl.Audit.Record(p, auditService.Entry{
		Action:    "UPDATE",
		Entity:    "daily_update",
		EntityID:  &update.DailyUpdateID,
		OldValues: old,
		NewValues: update,
		IPAddress: c.IP(),
		UserAgent: c.Get("User-Agent"),
	})

	return helper.Success(c, "Laporan harian berhasil diperbarui", dto.ToDailyUpdateDTO(update))
}

// =======================
// 💬 Add Feedback
// =======================
func (ctrl *DailyUpdateController) AddFeedback(c *fiber.Ctx) error {
	updateID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID laporan tidak valid")
	}

	var body dto.AddFeedbackRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateDailyUpdate.Struct(&body); err != nil {
		return helper.ValidationError(c, err)
	}

	p, err := helper.GetPrincipal(c)
	if err != nil {
		return err
	}

	feedback, err := ctrl.Service.AddFeedback(p, updateID, body)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	ctrl.Audit.Record(p, auditService.Entry{
		Action:    "FEEDBACK",
		Entity:    "daily_update",
		EntityID:  &updateID,
		NewValues: feedback,
		IPAddress: c.IP(),
		UserAgent: c.Get("User-Agent"),
	})

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Feedback berhasil ditambahkan", feedback)
}

// =======================
// 📄 Get All Daily Updates
// Query: ?batch_id=&start_date=&end_date=&page=&limit=
// =======================
func (ctrl *DailyUpdateController) GetAllDailyUpdates(c *fiber.Ctx) error {
	p, err := helper.GetPrincipal(c)
	if err != nil {
		return err
	}

	paging := helper.ResolvePaging(c)
	query := dto.ListDailyUpdateQuery{Limit: paging.Limit, Offset: paging.Offset}

	if raw := c.Query("batch_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "batch_id tidak valid")
		}
		query.BatchID = &id
	}
	if raw := c.Query("start_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "start_date tidak valid")
		}
		query.StartDate = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "end_date tidak valid")
		}
		query.EndDate = &t
	}

	rows, total, err := ctrl.Service.List(p, query)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	resp := make([]dto.DailyUpdateDTO, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, dto.ToDailyUpdateDTO(row))
	}

	return helper.Success(c, "OK", fiber.Map{
		"daily_updates": resp,
		"pagination":    fiber.Map{"page": paging.Page, "limit": paging.Limit, "total": total},
	})
}

// =======================
// 🔍 Get Daily Update by ID (+ ledger pasangan)
// =======================
func (ctrl *DailyUpdateController) GetDailyUpdateByID(c *fiber.Ctx) error {
	updateID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID laporan tidak valid")
	}

	p, err := helper.GetPrincipal(c)
	if err != nil {
		return err
	}

	update, attendance, err := ctrl.Service.GetByID(p, updateID)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	resp := dto.ToDailyUpdateDTO(update)
	if attendance != nil {
		attDTO := attendanceDto.ToAttendanceDTO(*attendance, time.Now())
		resp.Attendance = &attDTO
	}
	return helper.Success(c, "OK", resp)
}

// =======================
// 📊 Summarize per batch
// Path: /daily-updates/batch/:batchId/summary
// =======================
func (ctrl *DailyUpdateController) SummarizeBatch(c *fiber.Ctx) error {
	batchID, err := uuid.Parse(c.Params("batchId"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID batch tidak valid")
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

	summary, err := ctrl.Service.Summarize(batchID, start, end)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.Success(c, "OK", summary)
}
