package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cine-match/app/server/catalog"
	"cine-match/app/server/constants"
	"cine-match/app/server/models"
	"cine-match/app/server/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 表单里的年份和评分是自由文本，绑定成字符串后交给解析器做区间校验
type MovieInput struct {
	Title       string `json:"title" form:"title"`
	Year        string `json:"year" form:"year"`
	Genre       string `json:"genre" form:"genre"`
	Director    string `json:"director" form:"director"`
	Rating      string `json:"rating" form:"rating"`
	Description string `json:"description" form:"description"`
	PosterURL   string `json:"poster_url" form:"poster_url"`
}

type MovieInfo struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Year        *int      `json:"year"`
	Genre       string    `json:"genre"`
	Director    string    `json:"director"`
	Rating      *float64  `json:"rating"`
	Description string    `json:"description"`
	PosterURL   string    `json:"poster_url"`
	CreatedAt   time.Time `json:"created_at"`
}

type MovieListResponse struct {
	Movies  []MovieInfo `json:"movies"`
	Total   int64       `json:"total"`
	Page    int         `json:"page"`
	PageMax int64       `json:"page_max"`
	PerPage int         `json:"per_page"`
	Genres  []string    `json:"genres"`

	// 回显检索条件，方便前端还原表单状态
	Query     string   `json:"query"`
	Genre     string   `json:"genre"`
	Year      *int     `json:"year"`
	MinRating *float64 `json:"min_rating"`
}

type MovieResponse struct {
	Message string    `json:"message"`
	Movie   MovieInfo `json:"movie"`
}

func (a *App) movieMapFields(req *MovieInput, movie *models.Movie) {
	movie.Title = strings.TrimSpace(req.Title)
	movie.Year = utils.ParseYear(req.Year)
	movie.Genre = strings.TrimSpace(req.Genre)
	movie.Director = strings.TrimSpace(req.Director)
	movie.Rating = utils.ParseRating(req.Rating)
	movie.Description = strings.TrimSpace(req.Description)

	movie.PosterURL = strings.TrimSpace(req.PosterURL)
	if movie.PosterURL == "" {
		movie.PosterURL = utils.PosterPlaceholder(movie.Title)
	}
}

func (a *App) parseMovieID(c echo.Context) (uint, error) {
	idUint64, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid movie id: %w", err)
	}
	return uint(idUint64), nil
}

// Index 首页：评分最高的若干影片
func (a *App) Index(c echo.Context) error {
	rctx := c.Request().Context()

	movies, err := catalog.Featured(a.db.WithContext(rctx), constants.FeaturedCount)
	if err != nil {
		a.l.Error("failed to get featured movies", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, movieInfos(movies))
}

// MovieList 目录检索：组合过滤 + 评分降序 + 分页
func (a *App) MovieList(c echo.Context) error {
	rctx := c.Request().Context()

	// 提取检索参数，缺省 / 无法解析的参数一律视为不过滤
	params := catalog.SearchParams{
		Query:     strings.TrimSpace(c.QueryParam("query")),
		Genre:     strings.TrimSpace(c.QueryParam("genre")),
		Year:      utils.ParseYear(c.QueryParam("year")),
		MinRating: utils.ParseRating(c.QueryParam("min_rating")),
	}
	if page, err := strconv.Atoi(c.QueryParam("page")); err == nil {
		params.Page = page
	}

	result, err := catalog.Search(a.db.WithContext(rctx), &params)
	if err != nil {
		a.l.Error("failed to search movies", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	// 筛选器下拉框使用的类型列表
	genres, err := a.cachedGenres(rctx)
	if err != nil {
		a.l.Error("failed to get genres", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, &MovieListResponse{
		Movies:    movieInfos(result.Movies),
		Total:     result.Total,
		Page:      result.Page,
		PageMax:   result.PageMax,
		PerPage:   result.PerPage,
		Genres:    genres,
		Query:     params.Query,
		Genre:     params.Genre,
		Year:      params.Year,
		MinRating: params.MinRating,
	})
}

func (a *App) MovieDetail(c echo.Context) error {
	id, err := a.parseMovieID(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	rctx := c.Request().Context()

	// 从数据库中获得
	var movie models.Movie
	if err := a.db.WithContext(rctx).First(&movie, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.er(c, http.StatusNotFound)
		}
		a.l.Error("failed to get movie", zap.Uint("id", id), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, movieInfo(&movie))
}

// AddMovieForm 新增表单需要的数据（类型下拉框）
func (a *App) AddMovieForm(c echo.Context) error {
	// 抓取 user 信息（认证）
	_, err, statusCode := a.authUser(c, true)
	if err != nil {
		return a.denyAuth(c, statusCode)
	}

	rctx := c.Request().Context()

	genres, err := a.cachedGenres(rctx)
	if err != nil {
		a.l.Error("failed to get genres", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, map[string][]string{"genres": genres})
}

func (a *App) MovieCreate(c echo.Context) error {
	// 抓取 user 信息（认证）
	_, err, statusCode := a.authUser(c, true)
	if err != nil {
		return a.denyAuth(c, statusCode)
	}

	rctx := c.Request().Context()

	// 绑定请求体
	var req MovieInput
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	// 创建
	var movie models.Movie
	a.movieMapFields(&req, &movie)

	// 标题必填
	if movie.Title == "" {
		return a.erMsg(c, http.StatusBadRequest, "Title is required!")
	}

	if err := a.db.WithContext(rctx).Create(&movie).Error; err != nil {
		a.l.Error("failed to create movie", zap.Any("movie", movie), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	// 目录有变化，类型列表缓存作废
	a.dropGenresCache(rctx)

	return c.JSON(http.StatusCreated, &MovieResponse{
		Message: fmt.Sprintf("Movie %q added successfully!", movie.Title),
		Movie:   movieInfo(&movie),
	})
}

// EditMovieForm 编辑表单需要的数据（当前影片内容）
func (a *App) EditMovieForm(c echo.Context) error {
	// 抓取 user 信息（认证）
	_, err, statusCode := a.authUser(c, true)
	if err != nil {
		return a.denyAuth(c, statusCode)
	}

	return a.MovieDetail(c)
}

func (a *App) MovieUpdate(c echo.Context) error {
	// 抓取 user 信息（认证）
	_, err, statusCode := a.authUser(c, true)
	if err != nil {
		return a.denyAuth(c, statusCode)
	}

	id, err := a.parseMovieID(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	rctx := c.Request().Context()

	// 绑定请求体
	var req MovieInput
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	// 从数据库中获得
	var movie models.Movie
	if err := a.db.WithContext(rctx).First(&movie, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.er(c, http.StatusNotFound)
		}
		a.l.Error("failed to get movie", zap.Uint("id", id), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	// 更新信息（原地覆盖）
	a.movieMapFields(&req, &movie)
	if movie.Title == "" {
		return a.erMsg(c, http.StatusBadRequest, "Title is required!")
	}

	if err := a.db.WithContext(rctx).Save(&movie).Error; err != nil {
		a.l.Error("failed to update movie", zap.Any("movie", movie), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	// 目录有变化，类型列表缓存作废
	a.dropGenresCache(rctx)

	return c.JSON(http.StatusOK, &MovieResponse{
		Message: fmt.Sprintf("Movie %q updated successfully!", movie.Title),
		Movie:   movieInfo(&movie),
	})
}

func (a *App) MovieDelete(c echo.Context) error {
	// 抓取 user 信息（认证）
	_, err, statusCode := a.authUser(c, true)
	if err != nil {
		return a.denyAuth(c, statusCode)
	}

	id, err := a.parseMovieID(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	rctx := c.Request().Context()

	// 先确认存在，删除后标题就取不到了
	var movie models.Movie
	if err := a.db.WithContext(rctx).First(&movie, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.er(c, http.StatusNotFound)
		}
		a.l.Error("failed to get movie", zap.Uint("id", id), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	// 硬删除
	if err := a.db.WithContext(rctx).Delete(&models.Movie{}, id).Error; err != nil {
		a.l.Error("failed to delete movie", zap.Uint("id", id), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	// 目录有变化，类型列表缓存作废
	a.dropGenresCache(rctx)

	return c.JSON(http.StatusOK, &StatusMessage{
		Message: fmt.Sprintf("Movie %q was deleted.", movie.Title),
	})
}

func movieInfo(movie *models.Movie) MovieInfo {
	return MovieInfo{
		ID:          movie.ID,
		Title:       movie.Title,
		Year:        movie.Year,
		Genre:       movie.Genre,
		Director:    movie.Director,
		Rating:      movie.Rating,
		Description: movie.Description,
		PosterURL:   movie.PosterURL,
		CreatedAt:   movie.CreatedAt,
	}
}

func movieInfos(movies []models.Movie) []MovieInfo {
	infos := []MovieInfo{}
	for i := range movies {
		infos = append(infos, movieInfo(&movies[i]))
	}
	return infos
}
