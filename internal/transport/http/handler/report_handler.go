package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"animal-market/internal/service"
	mdw "animal-market/internal/transport/http/middleware"
	resp "animal-market/internal/transport/http/response"
)

type ReportHandler struct {
	reports *service.ReportService
}

func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Create 可匿名：没登录就是游客举报
func (h *ReportHandler) Create(c *gin.Context) {
	var in struct {
		ListingID uint   `json:"listingId" binding:"required"`
		Reason    string `json:"reason" binding:"required,max=1000"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	var reporter *uint
	if uid := c.GetUint(mdw.CtxUserID); uid != 0 {
		reporter = &uid
	}
	r, err := h.reports.Create(in.ListingID, reporter, in.Reason)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, r)
}

func (h *ReportHandler) List(c *gin.Context) {
	page := intQuery(c, "page", 1)
	pageSize := intQuery(c, "pageSize", 20)
	rs, total, err := h.reports.List(c.Query("status"), page, pageSize)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OKPage(c, rs, resp.NewPagination(page, pageSize, total))
}

func (h *ReportHandler) StartReview(c *gin.Context) { h.mutate(c, h.reports.StartReview) }
func (h *ReportHandler) Reject(c *gin.Context)      { h.mutate(c, h.reports.Reject) }
func (h *ReportHandler) Dismiss(c *gin.Context)     { h.mutate(c, h.reports.Dismiss) }

func (h *ReportHandler) Close(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		resp.Fail(c, http.StatusBadRequest, "invalid report id")
		return
	}
	var in struct {
		Resolution string `json:"resolution" binding:"max=255"`
	}
	_ = c.ShouldBindJSON(&in) // body 可空
	if err := h.reports.Close(id, in.Resolution); err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, gin.H{"id": id, "status": "closed"})
}

func (h *ReportHandler) mutate(c *gin.Context, fn func(uint) error) {
	id, ok := uintParam(c, "id")
	if !ok {
		resp.Fail(c, http.StatusBadRequest, "invalid report id")
		return
	}
	if err := fn(id); err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, gin.H{"id": id})
}
