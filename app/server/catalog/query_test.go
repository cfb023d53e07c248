package catalog

import (
	"testing"

	"cine-match/app/server/models"
	"cine-match/app/server/utils"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// 内存库只在单个连接上存在，池子必须收紧到 1
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Movie{}, &models.User{}))
	return db
}

func addMovie(t *testing.T, db *gorm.DB, title, genre string, year int, rating float64) {
	t.Helper()
	require.NoError(t, db.Create(&models.Movie{
		Title:  title,
		Genre:  genre,
		Year:   utils.P(year),
		Rating: utils.P(rating),
	}).Error)
}

func seedCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()
	addMovie(t, db, "The Shawshank Redemption", "Drama", 1994, 9.3)
	addMovie(t, db, "The Dark Knight", "Action", 2008, 9.0)
	addMovie(t, db, "Inception", "Sci-Fi", 2010, 8.8)
	addMovie(t, db, "The Matrix", "Sci-Fi", 1999, 8.7)
	addMovie(t, db, "Interstellar", "Sci-Fi", 2014, 8.6)
	addMovie(t, db, "Parasite", "Drama", 2019, 8.5)
	addMovie(t, db, "Whiplash", "Drama", 2014, 8.5)
	addMovie(t, db, "Mad Max: Fury Road", "Action", 2015, 8.1)
	addMovie(t, db, "Arrival", "Sci-Fi", 2016, 7.9)
	addMovie(t, db, "The Room", "drama", 2003, 3.7)
}

func titles(movies []models.Movie) []string {
	out := []string{}
	for _, m := range movies {
		out = append(out, m.Title)
	}
	return out
}

func TestSearchNoFilters(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)

	res, err := Search(db, &SearchParams{})
	require.NoError(t, err)

	// 无参数等于不过滤：全量条目，评分降序，第一页只有固定页长
	require.Equal(t, int64(10), res.Total)
	require.Equal(t, int64(2), res.PageMax)
	require.Len(t, res.Movies, res.PerPage)
	for i := 1; i < len(res.Movies); i++ {
		require.GreaterOrEqual(t, *res.Movies[i-1].Rating, *res.Movies[i].Rating)
	}
	require.Equal(t, "The Shawshank Redemption", res.Movies[0].Title)
}

func TestSearchSecondPage(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)

	res, err := Search(db, &SearchParams{Page: 2})
	require.NoError(t, err)
	require.Len(t, res.Movies, 2)
	require.Equal(t, []string{"Arrival", "The Room"}, titles(res.Movies))
}

func TestSearchOutOfRangePage(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)

	// 超界页码返回空列表，不报错，元数据保持可用
	res, err := Search(db, &SearchParams{Page: 99})
	require.NoError(t, err)
	require.Empty(t, res.Movies)
	require.Equal(t, int64(10), res.Total)
	require.Equal(t, int64(2), res.PageMax)
}

func TestSearchGenreExactMatch(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)

	res, err := Search(db, &SearchParams{Genre: "Drama"})
	require.NoError(t, err)

	// 精确匹配且大小写敏感："drama" 的 The Room 不能出现
	require.Equal(t, int64(3), res.Total)
	for _, m := range res.Movies {
		require.Equal(t, "Drama", m.Genre)
	}
}

func TestSearchTitleCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)

	for _, query := range []string{"matrix", "MATRIX", "Matrix", "atri"} {
		res, err := Search(db, &SearchParams{Query: query})
		require.NoError(t, err)
		require.Equal(t, []string{"The Matrix"}, titles(res.Movies), "query %q", query)
	}
}

func TestSearchYearAndMinRating(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)

	res, err := Search(db, &SearchParams{Year: utils.P(2014)})
	require.NoError(t, err)
	require.Equal(t, []string{"Interstellar", "Whiplash"}, titles(res.Movies))

	res, err = Search(db, &SearchParams{MinRating: utils.P(9.0)})
	require.NoError(t, err)
	require.Equal(t, []string{"The Shawshank Redemption", "The Dark Knight"}, titles(res.Movies))
}

func TestSearchConjunctiveFilters(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)

	// 所有给出的条件都必须同时成立
	res, err := Search(db, &SearchParams{
		Query:     "the",
		Genre:     "Sci-Fi",
		MinRating: utils.P(8.0),
	})
	require.NoError(t, err)
	require.Equal(t, []string{"The Matrix"}, titles(res.Movies))
}

func TestSearchZeroMatches(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)

	// 一条都匹配不到是正常结果，不是错误
	res, err := Search(db, &SearchParams{Query: "zzzz"})
	require.NoError(t, err)
	require.Empty(t, res.Movies)
	require.Equal(t, int64(0), res.Total)
}

func TestSearchUnratedSortsLast(t *testing.T) {
	db := newTestDB(t)
	addMovie(t, db, "Rated", "Drama", 2000, 5.0)
	require.NoError(t, db.Create(&models.Movie{Title: "Unrated", Genre: "Drama"}).Error)

	res, err := Search(db, &SearchParams{})
	require.NoError(t, err)
	require.Equal(t, []string{"Rated", "Unrated"}, titles(res.Movies))
}

func TestFeatured(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)

	movies, err := Featured(db, 3)
	require.NoError(t, err)
	require.Equal(t, []string{"The Shawshank Redemption", "The Dark Knight", "Inception"}, titles(movies))
}

func TestDistinctGenres(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)
	// 空类型不应该进入筛选列表
	require.NoError(t, db.Create(&models.Movie{Title: "No Genre"}).Error)

	genres, err := DistinctGenres(db)
	require.NoError(t, err)
	require.Equal(t, []string{"Action", "Drama", "Sci-Fi", "drama"}, genres)
}
