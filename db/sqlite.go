package db

import (
	"database/sql"
	"strings"
	"sync"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const sqliteDriverName = "sqlite3_house"

var registerSqlite sync.Once

// SqliteDialector opens dsn through a driver whose lower() folds Unicode
// text. The builtin only folds ASCII, which breaks case-insensitive search
// on non-Latin titles.
func SqliteDialector(dsn string) gorm.Dialector {
	registerSqlite.Do(func() {
		sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				return conn.RegisterFunc("lower", unicodeLower, true)
			},
		})
	})

	return sqlite.New(sqlite.Config{DriverName: sqliteDriverName, DSN: dsn})
}

func unicodeLower(v interface{}) interface{} {
	switch s := v.(type) {
	case string:
		return strings.ToLower(s)
	case []byte:
		if s == nil {
			return nil
		}
		return strings.ToLower(string(s))
	default:
		return v
	}
}
