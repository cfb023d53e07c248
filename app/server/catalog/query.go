package catalog

import (
	"fmt"
	"strings"

	"cine-match/app/server/constants"
	"cine-match/app/server/models"

	"gorm.io/gorm"
)

// 过滤条件以描述符（字段、操作、值）的形式按需累加，
// 最后统一翻译成一次查询，构造逻辑不跟具体的查询 API 绑死。
type predicate struct {
	field string
	op    string
	value any
}

const (
	opContains = "contains" // 大小写不敏感的子串匹配
	opEquals   = "equals"   // 精确相等
	opAtLeast  = "at-least" // 大于等于
)

type SearchParams struct {
	Query     string   // 标题关键字，空串表示不过滤
	Genre     string   // 类型精确匹配，空串表示不过滤
	Year      *int     // 年份精确匹配， nil 表示不过滤
	MinRating *float64 // 评分下限， nil 表示不过滤
	Page      int      // 页码，从 1 开始
}

type SearchResult struct {
	Movies  []models.Movie
	Total   int64 // 满足过滤条件的总条目数
	Page    int
	PageMax int64
	PerPage int
}

// 缺省 / 空参数不产生条件（既不是"全不匹配"也不是"匹配空串"）
func buildPredicates(params *SearchParams) []predicate {
	var preds []predicate

	if query := strings.TrimSpace(params.Query); query != "" {
		preds = append(preds, predicate{field: "title", op: opContains, value: query})
	}
	if genre := strings.TrimSpace(params.Genre); genre != "" {
		preds = append(preds, predicate{field: "genre", op: opEquals, value: genre})
	}
	if params.Year != nil {
		preds = append(preds, predicate{field: "year", op: opEquals, value: *params.Year})
	}
	if params.MinRating != nil {
		preds = append(preds, predicate{field: "rating", op: opAtLeast, value: *params.MinRating})
	}

	return preds
}

// 把描述符翻译成查询条件，多个条件之间为 AND 关系。
// 子串匹配用 LOWER + LIKE 而不是 ILIKE ，Postgres 和 SQLite 都认。
func applyPredicates(tx *gorm.DB, preds []predicate) *gorm.DB {
	for _, p := range preds {
		switch p.op {
		case opContains:
			tx = tx.Where(fmt.Sprintf("LOWER(%s) LIKE ?", p.field), "%"+strings.ToLower(p.value.(string))+"%")
		case opEquals:
			tx = tx.Where(fmt.Sprintf("%s = ?", p.field), p.value)
		case opAtLeast:
			tx = tx.Where(fmt.Sprintf("%s >= ?", p.field), p.value)
		}
	}
	return tx
}

// Search 执行目录检索：组合过滤、按评分降序、分页。
// 页码超界返回空列表而不是报错，匹配不到任何条目也是正常结果。
func Search(db *gorm.DB, params *SearchParams) (*SearchResult, error) {
	preds := buildPredicates(params)

	// 统计总数（与列表查询使用同一组条件）
	var total int64
	if err := applyPredicates(db.Model(&models.Movie{}), preds).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count movies: %w", err)
	}

	page := params.Page
	if page < 1 {
		page = 1
	}

	var movies []models.Movie
	if err := applyPredicates(db.Model(&models.Movie{}), preds).
		Order("rating DESC NULLS LAST, id ASC").
		Limit(constants.MoviesPerPage).
		Offset((page - 1) * constants.MoviesPerPage).
		Find(&movies).Error; err != nil {
		return nil, fmt.Errorf("find movies: %w", err)
	}

	return &SearchResult{
		Movies:  movies,
		Total:   total,
		Page:    page,
		PageMax: calcMaxPage(total, constants.MoviesPerPage),
		PerPage: constants.MoviesPerPage,
	}, nil
}

// Featured 返回评分最高的 n 部影片，用于首页展示
func Featured(db *gorm.DB, n int) ([]models.Movie, error) {
	var movies []models.Movie
	if err := db.Model(&models.Movie{}).
		Order("rating DESC NULLS LAST, id ASC").
		Limit(n).
		Find(&movies).Error; err != nil {
		return nil, fmt.Errorf("find featured movies: %w", err)
	}
	return movies, nil
}

// DistinctGenres 枚举所有出现过的非空类型值（升序），用于填充筛选器下拉框
func DistinctGenres(db *gorm.DB) ([]string, error) {
	var genres []string
	if err := db.Model(&models.Movie{}).
		Distinct().
		Where("genre IS NOT NULL AND genre <> ''").
		Order("genre ASC").
		Pluck("genre", &genres).Error; err != nil {
		return nil, fmt.Errorf("pluck genres: %w", err)
	}
	return genres, nil
}

func calcMaxPage(count int64, limit int) int64 {
	pageMax := count / int64(limit)
	if (count % int64(limit)) != 0 {
		pageMax++
	}
	return pageMax
}
