package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"pelatihanku_backend/internals/features/classrooms/dto"
	"pelatihanku_backend/internals/features/classrooms/model"
	helper "pelatihanku_backend/internals/helpers"
)

var validateClassroom = validator.New()

type ClassroomController struct {
	DB *gorm.DB
}

func NewClassroomController(db *gorm.DB) *ClassroomController {
	return &ClassroomController{DB: db}
}

// =======================
// ➕ Create Classroom
// =======================
func (ctrl *ClassroomController) CreateClassroom(c *fiber.Ctx) error {
	var body dto.CreateClassroomRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateClassroom.Struct(&body); err != nil {
		return helper.ValidationError(c, err)
	}

	p, err := helper.GetPrincipal(c)
	if err != nil {
		return err
	}

	capacity := 30
	if body.ClassroomCapacity != nil {
		capacity = *body.ClassroomCapacity
	}

	classroom := model.ClassroomModel{
		ClassroomName:       strings.TrimSpace(body.ClassroomName),
		ClassroomCode:       strings.ToUpper(strings.TrimSpace(body.ClassroomCode)),
		ClassroomLocation:   body.ClassroomLocation,
		ClassroomCapacity:   capacity,
		ClassroomFacilities: body.ClassroomFacilities,
		ClassroomIsActive:   true,
		ClassroomCreatedBy:  p.ID,
	}

	if err := ctrl.DB.Create(&classroom).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return helper.Error(c, fiber.StatusConflict, "Kode ruang kelas sudah digunakan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal membuat ruang kelas")
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Ruang kelas berhasil dibuat", dto.ToClassroomDTO(classroom))
}

// =======================
// 📄 Get All Classrooms
// =======================
func (ctrl *ClassroomController) GetAllClassrooms(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c)

	q := ctrl.DB.Model(&model.ClassroomModel{})
	if c.Query("active") == "true" {
		q = q.Where("classroom_is_active = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal menghitung ruang kelas")
	}

	var classrooms []model.ClassroomModel
	if err := q.
		Order("classroom_name ASC").
		Limit(paging.Limit).
		Offset(paging.Offset).
		Find(&classrooms).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil ruang kelas")
	}

	resp := make([]dto.ClassroomDTO, 0, len(classrooms))
	for _, cls := range classrooms {
		resp = append(resp, dto.ToClassroomDTO(cls))
	}

	return helper.Success(c, "OK", fiber.Map{
		"classrooms": resp,
		"pagination": fiber.Map{"page": paging.Page, "limit": paging.Limit, "total": total},
	})
}

// =======================
// 🔍 Get Classroom by ID
// =======================
func (ctrl *ClassroomController) GetClassroomByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID ruang kelas tidak valid")
	}

	var classroom model.ClassroomModel
	if err := ctrl.DB.First(&classroom, "classroom_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Ruang kelas tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil ruang kelas")
	}

	return helper.Success(c, "OK", dto.ToClassroomDTO(classroom))
}

// =======================
// ✏️ Update Classroom
// =======================
func (ctrl *ClassroomController) UpdateClassroom(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID ruang kelas tidak valid")
	}

	var body dto.UpdateClassroomRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateClassroom.Struct(&body); err != nil {
		return helper.ValidationError(c, err)
	}

	var classroom model.ClassroomModel
	if err := ctrl.DB.First(&classroom, "classroom_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Ruang kelas tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil ruang kelas")
	}

	if body.ClassroomName != nil {
		classroom.ClassroomName = strings.TrimSpace(*body.ClassroomName)
	}
	if body.ClassroomLocation != nil {
		classroom.ClassroomLocation = body.ClassroomLocation
	}
	if body.ClassroomCapacity != nil {
		classroom.ClassroomCapacity = *body.ClassroomCapacity
	}
	if body.ClassroomFacilities != nil {
		classroom.ClassroomFacilities = body.ClassroomFacilities
	}
	if body.ClassroomIsActive != nil {
		classroom.ClassroomIsActive = *body.ClassroomIsActive
	}

	if err := ctrl.DB.Save(&classroom).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal memperbarui ruang kelas")
	}

	return helper.Success(c, "Ruang kelas berhasil diperbarui", dto.ToClassroomDTO(classroom))
}
