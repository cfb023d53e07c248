package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"cine-match/app/server/constants"
	"cine-match/app/server/models"
	"cine-match/app/server/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Result 一次导入的统计结果
type Result struct {
	BatchID  uuid.UUID // 本次导入的批次标识，用于日志与反馈
	Imported int       // 成功入库的行数
	Skipped  int       // 因缺少标题被跳过的行数
}

// ImportCSV 把一份带表头的 CSV 字节流导入影片目录。
//
// 行级与事务级采用两套策略：
//   - 行级宽松：缺标题的行跳过并计数，不影响其他行；
//   - 事务级严格：所有通过校验的行先缓存在内存里，最后一次性放进
//     一个事务提交，提交途中任何失败都会整体回滚，不会留下部分数据。
func ImportCSV(ctx context.Context, db *gorm.DB, data []byte) (*Result, error) {
	// 按 UTF-8 解码，无法识别的字节序列替换成 U+FFFD ，编码噪声不中断导入
	text := strings.ToValidUTF8(string(data), string(utf8.RuneError))

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1 // 各行列数不一致的脏数据也接着处理
	reader.LazyQuotes = true

	// 表头行
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		// 空文件：没有可导入的行，不算失败
		return &Result{BatchID: uuid.New()}, nil
	} else if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var (
		staged  []*models.Movie
		skipped int
	)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			// 结构性损坏：此时还没有任何写入，整体失败
			return nil, fmt.Errorf("read csv row: %w", err)
		}

		// 行数据映射为 列名 -> 单元格文本
		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			}
		}

		// 标题是必填字段，解析不出来就跳过这一行
		title := utils.ResolveField(row, constants.CSVTitleKeys...)
		if title == "" {
			skipped++
			continue
		}

		// 其余字段都是可选的，解析失败统一退化为缺失
		poster := utils.ResolveField(row, constants.CSVPosterKeys...)
		if poster == "" {
			poster = utils.PosterPlaceholder(title)
		}

		staged = append(staged, &models.Movie{
			Title:       title,
			Year:        utils.ParseYear(utils.ResolveField(row, constants.CSVYearKeys...)),
			Genre:       utils.ResolveField(row, constants.CSVGenreKeys...),
			Director:    utils.ResolveField(row, constants.CSVDirectorKeys...),
			Rating:      utils.ParseRating(utils.ResolveField(row, constants.CSVRatingKeys...)),
			Description: utils.ResolveField(row, constants.CSVDescriptionKeys...),
			PosterURL:   poster,
		})
	}

	// 全部行处理完后统一提交：要么全部入库，要么全部回滚
	if len(staged) > 0 {
		if err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			for _, movie := range staged {
				if err := tx.Create(movie).Error; err != nil {
					return fmt.Errorf("create movie %q: %w", movie.Title, err)
				}
			}
			return nil
		}); err != nil {
			return nil, fmt.Errorf("commit import: %w", err)
		}
	}

	return &Result{
		BatchID:  uuid.New(),
		Imported: len(staged),
		Skipped:  skipped,
	}, nil
}
