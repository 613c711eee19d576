package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	reportSheet     = "Report"
	samplesSheet    = "Samples"

	// MaxExportSamples 工作表行数上限减去表头
	MaxExportSamples = excelize.TotalRows - 1
)

// ErrTooManySamples 样本数超出单个工作表的行数上限
var ErrTooManySamples = fmt.Errorf("report has more than %d samples, which exceeds the worksheet row limit", MaxExportSamples)

// ExportReport 导出报告为 xlsx
// @Summary 导出报告
// @Description 与 /get_report 相同的登记校验，返回 Report 与 Samples 两个工作表
// @Tags 报告
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param request body PredictionIDRequest true "预测编号"
// @Success 200 {file} file "xlsx 文件"
// @Failure 400 {object} ErrorResponse "缺少 prediction_id"
// @Failure 403 {object} ErrorResponse "尚未登记"
// @Failure 404 {object} ErrorResponse "prediction_id 不存在"
// @Failure 413 {object} ErrorResponse "样本数超出工作表行数上限"
// @Failure 500 {object} ErrorResponse "生成文件失败"
// @Router /export_report [post]
func (h *ReportHandler) ExportReport(c *gin.Context) {
	rec := h.registeredRecord(c)
	if rec == nil {
		return
	}

	data, err := BuildReportWorkbook(NewReport(rec))
	if errors.Is(err, ErrTooManySamples) {
		h.log.Info("report too large to export", "prediction_id", rec.PredictionID, "num_samples", len(rec.Samples))
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
			Error:   "Too many samples to export as a spreadsheet; use /get_report instead.",
			Details: err.Error(),
		})
		return
	}
	if err != nil {
		h.log.Error("building report workbook failed", "prediction_id", rec.PredictionID, "error", err)
		InternalError(c, "Failed to export report.", err)
		return
	}

	filename := fmt.Sprintf("ecgenius_report_%s.xlsx", rec.PredictionID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// BuildReportWorkbook 生成报告工作簿
func BuildReportWorkbook(r Report) ([]byte, error) {
	if len(r.Samples) > MaxExportSamples {
		return nil, ErrTooManySamples
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return nil, err
	}
	rows := [][]interface{}{
		{"Field", "Value"},
		{"prediction_id", r.PredictionID},
		{"timestamp", r.Timestamp},
		{"name", r.Name},
		{"age", int(r.Age)},
		{"gender", r.Gender},
		{"phone_no", r.PhoneNo},
		{"previous_medication", r.PreviousMedication},
		{"is_mci", r.Results.IsMCI},
		{"is_afib", r.Results.IsAFib},
		{"is_bbb", r.Results.IsBBB},
		{"is_vfi", r.Results.IsVFI},
		{"heart_rate", r.Results.HeartRate},
		{"num_samples", len(r.Samples)},
	}
	if err := writeRows(f, reportSheet, rows); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(samplesSheet); err != nil {
		return nil, err
	}
	sw, err := f.NewStreamWriter(samplesSheet)
	if err != nil {
		return nil, err
	}
	if err := sw.SetRow("A1", []interface{}{"index", "value"}); err != nil {
		return nil, err
	}
	for i, v := range r.Samples {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := sw.SetRow(cell, []interface{}{i, v}); err != nil {
			return nil, err
		}
	}
	if err := sw.Flush(); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

