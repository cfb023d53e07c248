package utils

import (
	"fmt"
	"strconv"
	"strings"

	"cine-match/app/server/constants"
)

// ParseYear 把表单 / CSV 里的年份文本转换为整数。
// 输入不可信：空白、非数字、超出合理区间的值一律按缺失处理（返回 nil ），不报错，
// 这样后续构造记录的时候可以统一走默认值逻辑。
func ParseYear(value string) *int {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	year, err := strconv.Atoi(value)
	if err != nil || year < constants.YearMin || year > constants.YearMax {
		return nil
	}

	return P(year)
}

// ParseRating 把评分文本转换为浮点数，契约与 ParseYear 相同，区间 0.0 - 10.0 。
func ParseRating(value string) *float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	rating, err := strconv.ParseFloat(value, 64)
	if err != nil || rating < constants.RatingMin || rating > constants.RatingMax {
		return nil
	}

	return P(rating)
}

// ResolveField 按优先级从行数据里解析字段：返回第一个（去除首尾空白后）非空的候选列的值。
// 空字符串不算存在；全部落空时返回空串。
func ResolveField(row map[string]string, keys ...string) string {
	for _, key := range keys {
		if value, ok := row[key]; ok {
			if value = strings.TrimSpace(value); value != "" {
				return value
			}
		}
	}
	return ""
}

// PosterPlaceholder 由标题确定性地生成占位海报地址
func PosterPlaceholder(title string) string {
	return fmt.Sprintf(constants.PosterPlaceholderURL, strings.ReplaceAll(title, " ", "+"))
}
