package response

import (
	"math"

	"github.com/gin-gonic/gin"

	"animal-market/internal/apperr"
)

// Resp 统一返回体：{ success, data, message?, pagination? }
type Resp struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
}

func NewPagination(page, pageSize int, total int64) *Pagination {
	pages := 0
	if pageSize > 0 {
		pages = int(math.Ceil(float64(total) / float64(pageSize)))
	}
	return &Pagination{
		CurrentPage:  page,
		TotalPages:   pages,
		TotalItems:   total,
		ItemsPerPage: pageSize,
	}
}

// OK data 不为 null
func OK(c *gin.Context, data interface{}) {
	if data == nil {
		data = struct{}{}
	}
	c.JSON(200, Resp{Success: true, Data: data})
}

func OKPage(c *gin.Context, data interface{}, p *Pagination) {
	if data == nil {
		data = struct{}{}
	}
	c.JSON(200, Resp{Success: true, Data: data, Pagination: p})
}

func Fail(c *gin.Context, status int, msg string) {
	c.JSON(status, Resp{Success: false, Data: struct{}{}, Message: msg})
}

// Err 服务层错误统一映射到 HTTP 状态码
func Err(c *gin.Context, err error) {
	code, msg := apperr.CodeOf(err)
	Fail(c, code, msg)
}

func AbortFail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Resp{Success: false, Data: struct{}{}, Message: msg})
}
