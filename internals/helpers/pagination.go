package helper

import "github.com/gofiber/fiber/v2"

type Pagination struct {
	Page   int `json:"page"`
	Limit  int `json:"limit"`
	Offset int `json:"-"`
}

// ResolvePaging membaca query ?page= & ?limit= dengan nilai default yang aman.
func ResolvePaging(c *fiber.Ctx) Pagination {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return Pagination{Page: page, Limit: limit, Offset: (page - 1) * limit}
}
