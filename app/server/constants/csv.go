package constants

// 不同来源的 CSV 列名不统一，按优先级逐个尝试
var (
	CSVTitleKeys       = []string{"Series_Title", "Title", "movie_title", "name", "title"}
	CSVYearKeys        = []string{"Released_Year", "year", "Year", "released_year"}
	CSVGenreKeys       = []string{"Genre", "genre", "genres"}
	CSVDirectorKeys    = []string{"Director", "director", "directed_by"}
	CSVRatingKeys      = []string{"IMDB_Rating", "rating", "Rating", "imdb_rating"}
	CSVDescriptionKeys = []string{"Overview", "description", "plot", "Plot", "Summary"}
	CSVPosterKeys      = []string{"Poster_Link", "poster_url", "Poster"}
)

const (
	CSVFileExtension = ".csv"
)
