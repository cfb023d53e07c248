package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"cine-match/app/server/constants"
	"cine-match/app/server/importer"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ImportResponse struct {
	Message  string `json:"message"`
	BatchID  string `json:"batch_id"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
}

// ImportCSVForm 上传表单的约定说明
func (a *App) ImportCSVForm(c echo.Context) error {
	// 抓取 user 信息（认证）
	_, err, statusCode := a.authUser(c, true)
	if err != nil {
		return a.denyAuth(c, statusCode)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"field":     "csv_file",
		"extension": constants.CSVFileExtension,
	})
}

func (a *App) ImportCSV(c echo.Context) error {
	// 抓取 user 信息（认证）
	_, err, statusCode := a.authUser(c, true)
	if err != nil {
		return a.denyAuth(c, statusCode)
	}

	rctx := c.Request().Context()

	// 提取上传的文件
	fileHeader, err := c.FormFile("csv_file")
	if err != nil || fileHeader.Filename == "" {
		return a.erMsg(c, http.StatusBadRequest, "No file selected. Please choose a CSV file")
	}

	// 解析之前先把住扩展名
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), constants.CSVFileExtension) {
		return a.erMsg(c, http.StatusBadRequest, "Invalid file type. Please upload a CSV file")
	}

	file, err := fileHeader.Open()
	if err != nil {
		a.l.Error("failed to open uploaded file", zap.Error(err))
		return a.erMsg(c, http.StatusBadRequest, fmt.Sprintf("Error reading file: %s", err))
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		a.l.Error("failed to read uploaded file", zap.Error(err))
		return a.erMsg(c, http.StatusBadRequest, fmt.Sprintf("Error reading file: %s", err))
	}

	// 走导入管道：行级宽松，事务级全有或全无
	result, err := importer.ImportCSV(rctx, a.db, data)
	if err != nil {
		a.l.Error("import failed", zap.Error(err))
		return a.erMsg(c, http.StatusInternalServerError, fmt.Sprintf("Import failed: %s", err))
	}

	// 目录有变化，类型列表缓存作废
	a.dropGenresCache(rctx)

	a.l.Info("csv import finished",
		zap.String("batch", result.BatchID.String()),
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
	)

	message := fmt.Sprintf("Successfully imported %d movies!", result.Imported)
	if result.Skipped > 0 {
		message = fmt.Sprintf("%s Skipped %d entries (missing title)", message, result.Skipped)
	}

	return c.JSON(http.StatusOK, &ImportResponse{
		Message:  message,
		BatchID:  result.BatchID.String(),
		Imported: result.Imported,
		Skipped:  result.Skipped,
	})
}
