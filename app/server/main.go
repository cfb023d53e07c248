package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"cine-match/app/server/handlers"
	"cine-match/app/server/inits"
	"cine-match/app/server/jwt"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// 初始化配置
	cfg, err := inits.Config()
	if err != nil {
		log.Fatal(fmt.Errorf("error loading config: %w", err))
	}

	// 初始化日志
	l, err := inits.Logger(!cfg.System.IsProd)
	if err != nil {
		log.Fatal(fmt.Errorf("error initializing logger: %w", err))
	}

	// 切换日志系统
	l.Debug("logger initialized")

	// 初始化数据库连接
	db, err := inits.DB(cfg.System.DBConnectionString)
	if err != nil {
		l.Fatal("error initializing DB connection", zap.Error(err))
	}

	// 初始化 redis 连接
	rdb, err := inits.Redis(cfg.System.RedisConnectionString)
	if err != nil {
		l.Fatal("error initializing Redis connection", zap.Error(err))
	}

	// 初始化 JWT
	j, err := jwt.New(cfg.Security.SignatureSecretKey)
	if err != nil {
		l.Fatal("error initializing JWT", zap.Error(err))
	}

	// 准备 handler app
	handlerApp := handlers.NewApp(l, db, rdb, j)

	// 准备 echo 服务
	e := echo.New()
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			l.Info("request",
				zap.String("URI", v.URI),
				zap.Int("status", v.Status),
			)

			return nil
		},
	}))
	e.Use(middleware.Recover())

	// 未命中路由与未处理错误统一落到这里（404 / 500 专用响应）
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			code = httpErr.Code
		}
		if code == http.StatusInternalServerError {
			l.Error("unhandled error", zap.Error(err))
		}
		if !c.Response().Committed {
			_ = c.JSON(code, &handlers.ErrorMessage{Message: http.StatusText(code)})
		}
	}

	// 绑定路由
	e.GET("/healthz", handlerApp.HealthCheck)

	e.GET("/", handlerApp.Index)
	e.GET("/movies", handlerApp.MovieList)
	e.GET("/movie/:id", handlerApp.MovieDetail)

	e.GET("/add_movie", handlerApp.AddMovieForm)
	e.POST("/add_movie", handlerApp.MovieCreate)
	e.GET("/movie/:id/edit", handlerApp.EditMovieForm)
	e.POST("/movie/:id/edit", handlerApp.MovieUpdate)
	e.POST("/movie/:id/delete", handlerApp.MovieDelete)

	e.GET("/import_csv", handlerApp.ImportCSVForm)
	e.POST("/import_csv", handlerApp.ImportCSV)

	e.POST("/register", handlerApp.AuthRegister)
	e.POST("/login", handlerApp.AuthLogin)
	e.GET("/logout", handlerApp.AuthLogout)
	e.GET("/profile", handlerApp.Profile)

	// 启动 echo 服务
	if err := e.Start(cfg.System.Listen); err != nil {
		l.Fatal("shutting down the server", zap.Error(err))
	}
}
