package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"cine-match/app/server/importer"
	"cine-match/app/server/inits"

	"go.uber.org/zap"
)

// 命令行批量导入：importer <csv 文件> ，数据库连接取 DB_CONN 环境变量
func main() {
	if len(os.Args) != 2 {
		log.Fatal("usage: importer <csv-file>")
	}

	// 初始化日志
	l, err := inits.Logger(true)
	if err != nil {
		log.Fatal(fmt.Errorf("error initializing logger: %w", err))
	}

	// 初始化数据库连接
	conn, exist := os.LookupEnv("DB_CONN")
	if !exist {
		l.Fatal("DB_CONN environment variable not set")
	}
	db, err := inits.DB(conn)
	if err != nil {
		l.Fatal("error initializing DB connection", zap.Error(err))
	}

	// 读入文件并走导入管道
	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		l.Fatal("error reading csv file", zap.String("file", os.Args[1]), zap.Error(err))
	}

	result, err := importer.ImportCSV(context.Background(), db, data)
	if err != nil {
		l.Fatal("import failed", zap.Error(err))
	}

	l.Info("import finished",
		zap.String("batch", result.BatchID.String()),
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
	)
}
