package db

import (
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

var SQL *sqlx.DB

// PostgresDSN builds the connection string from the PG_* environment variables
func PostgresDSN() string {
	host := os.Getenv("PG_HOST")
	port := os.Getenv("PG_PORT")
	user := os.Getenv("PG_USER")
	dbname := os.Getenv("PG_DB")
	password := os.Getenv("PG_PASSWORD")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, dbname)
}

// InitPostgres opens the sqlx connection used for hand-written aggregate
// queries (dashboard statistics). Retries while the database comes up.
func InitPostgres() error {
	dsn := PostgresDSN()

	var err error
	for i := 0; i < 10; i++ {
		SQL, err = sqlx.Connect("postgres", dsn)
		if err == nil {
			return nil
		}
		time.Sleep(500 * time.Millisecond)
	}
	return err
}
