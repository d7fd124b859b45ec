package main

import (
	"bufio"
	"flag"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	"gitlab.com/dirk.krummacker/mini-crm/internal/config"
	"gitlab.com/dirk.krummacker/mini-crm/internal/logger"
	"gitlab.com/dirk.krummacker/mini-crm/internal/store"
	"go.uber.org/zap"
)

// Usage example on the command line:
// > DBHOST=localhost:3306 DBUSER=dirk DBPWD=bullo92 go run main.go -file=../../scripts/database.sql
func main() {
	filePtr := flag.String("file", "database.sql", "the sql file to execute")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logger.New(cfg, "migration")
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	sqlDB, err := store.OpenMySQL(cfg.MySQL)
	if err != nil {
		log.Fatal("could not open mysql", zap.Error(err))
	}
	db := sqlx.NewDb(sqlDB, "mysql")
	defer db.Close()

	readFile, err := os.Open(*filePtr) // nosemgrep
	if err != nil {
		log.Fatal("could not open sql file", zap.String("file", *filePtr), zap.Error(err))
	}
	defer readFile.Close()

	fileScanner := bufio.NewScanner(readFile)
	fileScanner.Split(bufio.ScanLines)
	builder := strings.Builder{}
	statements := 0
	for fileScanner.Scan() {
		line := fileScanner.Text()
		builder.WriteString(line)
		builder.WriteString(" ")
		if strings.Contains(line, ";") {
			db.MustExec(builder.String())
			builder = strings.Builder{}
			statements++
		}
	}
	log.Info("migration finished", zap.String("file", *filePtr), zap.Int("statements", statements))
}
