package handler

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"animal-market/internal/domain"
	"animal-market/internal/service"
	mdw "animal-market/internal/transport/http/middleware"
	resp "animal-market/internal/transport/http/response"
)

type UploadOpts struct {
	Dir        string
	MaxSizeMB  int
	MaxFiles   int
	PublicPath string
}

type ListingHandler struct {
	listings *service.ListingService
	upload   UploadOpts
	log      *zap.Logger
}

func NewListingHandler(listings *service.ListingService, upload UploadOpts, log *zap.Logger) *ListingHandler {
	return &ListingHandler{listings: listings, upload: upload, log: log}
}

// parseFilter GET /animals 的筛选参数，全部可选
func parseFilter(c *gin.Context) domain.ListingFilter {
	f := domain.ListingFilter{
		Keyword:      c.Query("keyword"),
		Breed:        c.Query("breed"),
		Country:      c.Query("country"),
		City:         c.Query("city"),
		Gender:       strings.ToLower(c.Query("gender")),
		Availability: strings.ToLower(c.Query("availability")),
	}
	if sp := c.Query("species"); sp != "" {
		for _, s := range strings.Split(sp, ",") {
			if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
				f.Species = append(f.Species, s)
			}
		}
	}
	if v := c.Query("minPrice"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			f.MinPrice = &p
		}
	}
	if v := c.Query("maxPrice"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			f.MaxPrice = &p
		}
	}
	if v := c.Query("minAge"); v != "" {
		if a, err := strconv.Atoi(v); err == nil {
			f.MinAge = &a
		}
	}
	if v := c.Query("maxAge"); v != "" {
		if a, err := strconv.Atoi(v); err == nil {
			f.MaxAge = &a
		}
	}
	return f
}

// List 公开检索：隐式只返回 approved
func (h *ListingHandler) List(c *gin.Context) {
	page := intQuery(c, "page", 1)
	pageSize := intQuery(c, "pageSize", service.DefaultPageSize)
	items, total, err := h.listings.Discover(parseFilter(c), c.Query("sort"), page, pageSize, false)
	if err != nil {
		// 管道自身不向外抛：失败 = 空集 + success=false + 可读 message
		resp.Err(c, err)
		return
	}
	resp.OKPage(c, items, resp.NewPagination(page, pageSize, total))
}

func (h *ListingHandler) Latest(c *gin.Context) {
	items, err := h.listings.Latest(c.Request.Context(), intQuery(c, "n", 8))
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, items)
}

func (h *ListingHandler) BySlug(c *gin.Context) {
	l, err := h.listings.PublicBySlug(c.Param("slug"))
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, l)
}

func (h *ListingHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		resp.Fail(c, http.StatusBadRequest, "invalid listing id")
		return
	}
	l, err := h.listings.Get(id, c.GetUint(mdw.CtxUserID), c.GetString(mdw.CtxRole))
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, l)
}

// Mine 自己的全部 listing，含未过审
func (h *ListingHandler) Mine(c *gin.Context) {
	page := intQuery(c, "page", 1)
	pageSize := intQuery(c, "pageSize", service.DefaultPageSize)
	f := domain.ListingFilter{SellerID: c.GetUint(mdw.CtxUserID)}
	items, total, err := h.listings.Discover(f, c.Query("sort"), page, pageSize, true)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OKPage(c, items, resp.NewPagination(page, pageSize, total))
}

func (h *ListingHandler) Create(c *gin.Context) {
	var in service.ListingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	l, err := h.listings.Create(c.GetUint(mdw.CtxUserID), in)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, l)
}

func (h *ListingHandler) Update(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		resp.Fail(c, http.StatusBadRequest, "invalid listing id")
		return
	}
	var in service.ListingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	l, err := h.listings.Update(id, c.GetUint(mdw.CtxUserID), c.GetString(mdw.CtxRole), in)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, l)
}

func (h *ListingHandler) SetAvailability(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		resp.Fail(c, http.StatusBadRequest, "invalid listing id")
		return
	}
	var in struct {
		Availability string `json:"availability" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.listings.SetAvailability(id, c.GetUint(mdw.CtxUserID), c.GetString(mdw.CtxRole), in.Availability); err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, gin.H{"id": id, "availability": in.Availability})
}

func (h *ListingHandler) Delete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		resp.Fail(c, http.StatusBadRequest, "invalid listing id")
		return
	}
	urls, err := h.listings.Delete(id, c.GetUint(mdw.CtxUserID), c.GetString(mdw.CtxRole))
	if err != nil {
		resp.Err(c, err)
		return
	}
	h.removeFiles(urls)
	resp.OK(c, gin.H{"id": id, "deleted": true})
}

// View 浏览计数：永远 200，内部失败只记日志
func (h *ListingHandler) View(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		resp.Fail(c, http.StatusBadRequest, "invalid listing id")
		return
	}
	h.listings.View(id, c.GetUint(mdw.CtxUserID))
	resp.OK(c, gin.H{"counted": true})
}

// UploadImages multipart，字段名 images；只收图片 MIME，单次最多 MaxFiles 张
func (h *ListingHandler) UploadImages(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		resp.Fail(c, http.StatusBadRequest, "invalid listing id")
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		resp.Fail(c, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		resp.Fail(c, http.StatusBadRequest, "no files uploaded")
		return
	}
	if len(files) > h.upload.MaxFiles {
		resp.Fail(c, http.StatusBadRequest, fmt.Sprintf("at most %d files per upload", h.upload.MaxFiles))
		return
	}
	maxBytes := int64(h.upload.MaxSizeMB) << 20
	dir := filepath.Join(h.upload.Dir, "animals")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		resp.Fail(c, http.StatusInternalServerError, "upload dir unavailable")
		return
	}

	uid := c.GetUint(mdw.CtxUserID)
	role := c.GetString(mdw.CtxRole)
	saved := make([]domain.ListingImage, 0, len(files))
	for i, fh := range files {
		if fh.Size > maxBytes {
			resp.Fail(c, http.StatusBadRequest, fmt.Sprintf("%s exceeds %dMB", fh.Filename, h.upload.MaxSizeMB))
			return
		}
		if ct := fh.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/") {
			resp.Fail(c, http.StatusBadRequest, fmt.Sprintf("%s is not an image", fh.Filename))
			return
		}
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		name := uuid.NewString() + ext
		dst := filepath.Join(dir, name)
		if err := c.SaveUploadedFile(fh, dst); err != nil {
			resp.Fail(c, http.StatusInternalServerError, "save file failed")
			return
		}
		url := h.upload.PublicPath + "/animals/" + name
		img, err := h.listings.AddImage(id, uid, role, url, i)
		if err != nil {
			_ = os.Remove(dst)
			resp.Err(c, err)
			return
		}
		saved = append(saved, *img)
	}
	resp.OK(c, saved)
}

func (h *ListingHandler) DeleteImage(c *gin.Context) {
	id, ok := uintParam(c, "id")
	imgID, ok2 := uintParam(c, "imageId")
	if !ok || !ok2 {
		resp.Fail(c, http.StatusBadRequest, "invalid id")
		return
	}
	url, err := h.listings.DeleteImage(id, imgID, c.GetUint(mdw.CtxUserID), c.GetString(mdw.CtxRole))
	if err != nil {
		resp.Err(c, err)
		return
	}
	h.removeFiles([]string{url})
	resp.OK(c, gin.H{"deleted": true})
}

// removeFiles 磁盘清理尽力而为
func (h *ListingHandler) removeFiles(urls []string) {
	for _, u := range urls {
		rel := strings.TrimPrefix(u, h.upload.PublicPath+"/")
		if rel == u || strings.Contains(rel, "..") {
			continue
		}
		if err := os.Remove(filepath.Join(h.upload.Dir, filepath.FromSlash(rel))); err != nil && !os.IsNotExist(err) {
			h.log.Warn("file cleanup failed", zap.String("url", u), zap.Error(err))
		}
	}
}
