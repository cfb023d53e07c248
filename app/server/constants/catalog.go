package constants

const (
	MoviesPerPage = 8 // 列表页每页条目数
	FeaturedCount = 6 // 首页展示的高分影片数量
)

const (
	YearMin = 1888 // 最早的电影年份
	YearMax = 2030

	RatingMin = 0.0
	RatingMax = 10.0
)

const (
	// 海报缺省时的占位图， %s 为标题（空格替换为 + ）
	PosterPlaceholderURL = "https://placehold.co/300x450/gray/white?text=%s"
)
