package handler

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hieu182603/SmartAttendance-sub004/internal/service"
	"github.com/hieu182603/SmartAttendance-sub004/pkg/response"
)

// ExportHandler 排班导出接口
type ExportHandler struct {
	*baseHandler
	exportSvc service.ExportService
}

// MonthlyXLSX GET /export/schedules/:user_id/xlsx?year=&month=
func (h *ExportHandler) MonthlyXLSX(c *gin.Context) {
	userID := c.Param("user_id")
	if !canActOnUser(c, userID) {
		response.Forbidden(c, "只能导出本人的排班表")
		return
	}

	year, err1 := strconv.Atoi(c.Query("year"))
	month, err2 := strconv.Atoi(c.Query("month"))
	if err1 != nil || err2 != nil {
		h.handleError(c, service.ErrInvalidMonth)
		return
	}

	buf, filename, err := h.exportSvc.MonthlyWorkbook(c.Request.Context(), userID, year, month)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition",
		fmt.Sprintf(`attachment; filename*=UTF-8''%s`, url.PathEscape(filename)))
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// CalendarICS GET /export/schedules/:user_id/ics?start_date=&end_date=
func (h *ExportHandler) CalendarICS(c *gin.Context) {
	userID := c.Param("user_id")
	if !canActOnUser(c, userID) {
		response.Forbidden(c, "只能导出本人的排班表")
		return
	}

	start, err := time.ParseInLocation("2006-01-02", c.Query("start_date"), time.Local)
	if err != nil {
		h.handleError(c, service.ErrInvalidDate)
		return
	}
	end, err := time.ParseInLocation("2006-01-02", c.Query("end_date"), time.Local)
	if err != nil {
		h.handleError(c, service.ErrInvalidDate)
		return
	}

	feed, err := h.exportSvc.CalendarFeed(c.Request.Context(), userID, start, end)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="schedule.ics"`)
	c.Data(200, "text/calendar; charset=utf-8", []byte(feed))
}
