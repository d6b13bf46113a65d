package controller

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	auditService "pelatihanku_backend/internals/features/audits/service"
	"pelatihanku_backend/internals/features/batches/dto"
	"pelatihanku_backend/internals/features/batches/service"
	helper "pelatihanku_backend/internals/helpers"
)

var validateBatch = validator.New()

type BatchController struct {
	Service *service.BatchService
	Audit   *auditService.AuditService
}

func NewBatchController(db *gorm.DB) *BatchController {
	return &BatchController{
		Service: service.NewBatchService(db),
		Audit:   auditService.NewAuditService(db),
	}
}

// =======================
// ➕ Create Batch
// =======================
func (ctrl *BatchController) CreateBatch(c *fiber.Ctx) error {
	var body dto.CreateBatchRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateBatch.Struct(&body); err != nil {
		return helper.ValidationError(c, err)
	}

	p, err := helper.GetPrincipal(c)
	if err != nil {
		return err
	}

	batch, err := ctrl.Service.Create(p, body)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	ctrl.Audit.Record(p, auditService.Entry{
		Action:    "CREATE",
		Entity:    "batch",
		EntityID:  &batch.BatchID,
		NewValues: batch,
		IPAddress: c.IP(),
		UserAgent: c.Get("User-Agent"),
	})

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Batch berhasil dibuat", dto.ToBatchDTO(batch, time.Now()))
}

// =======================
// ✏️ Update Batch
// =======================
func (ctrl *BatchController) UpdateBatch(c *fiber.Ctx) error {
	batchID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID batch tidak valid")
	}

	var body dto.UpdateBatchRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateBatch.Struct(&body); err != nil {
		return helper.ValidationError(c, err)
	}

	p, err := helper.GetPrincipal(c)
	if err != nil {
		return err
	}

	old, err := ctrl.Service.GetByID(p, batchID)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	batch, err := ctrl.Service.Update(p, batchID, body)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	ctrl.Audit.Record(p, auditService.Entry{
		Action:    "UPDATE",
		Entity:    "batch",
		EntityID:  &batch.BatchID,
		OldValues: old,
		NewValues: batch,
		IPAddress: c.IP(),
		UserAgent: c.Get("User-Agent"),
	})

	return helper.Success(c, "Batch berhasil diperbarui", dto.ToBatchDTO(batch, time.Now()))
}

// =======================
// 🔍 Get Batch by ID
// =======================
func (ctrl *BatchController) GetBatchByID(c *fiber.Ctx) error {
	batchID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID batch tidak valid")
	}

	p, err := helper.GetPrincipal(c)
	if err != nil {
		return err
	}

	batch, err := ctrl.Service.GetByID(p, batchID)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.Success(c, "OK", dto.ToBatchDTO(batch, time.Now()))
}

// =======================
// 📄 Get All Batches (scoped + paginated)
// =======================
func (ctrl *BatchController) GetAllBatches(c *fiber.Ctx) error {
	p, err := helper.GetPrincipal(c)
	if err != nil {
		return err
	}

	paging := helper.ResolvePaging(c)
	batches, total, err := ctrl.Service.List(p, c.Query("status"), paging.Limit, paging.Offset)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	now := time.Now()
	resp := make([]dto.BatchDTO, 0, len(batches))
	for _, b := range batches {
		resp = append(resp, dto.ToBatchDTO(b, now))
	}

	return helper.Success(c, "OK", fiber.Map{
		"batches":    resp,
		"pagination": fiber.Map{"page": paging.Page, "limit": paging.Limit, "total": total},
	})
}

// =======================
// 🗑️ Delete Batch
// =======================
func (ctrl *BatchController) DeleteBatch(c *fiber.Ctx) error {
	batchID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID batch tidak valid")
	}

	p, err := helper.GetPrincipal(c)
	if err != nil {
		return err
	}

	old, err := ctrl.Service.GetByID(p, batchID)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	if err := ctrl.Service.Delete(p, batchID); err != nil {
		return helper.FromAppError(c, err)
	}

	ctrl.Audit.Record(p, auditService.Entry{
		Action:    "DELETE",
		Entity:    "batch",
		EntityID:  &batchID,
		OldValues: old,
		IPAddress: c.IP(),
		UserAgent: c.Get("User-Agent"),
	})

	return helper.Success(c, "Batch berhasil dihapus", fiber.Map{"batch_id": batchID})
}
