package store

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// ============================================================
// Dialects
// ============================================================

// Dialect отличия SQL-диалектов, которые затрагивают запросы хранилища.
type Dialect struct {
	Driver string
}

var (
	SQLite   = Dialect{Driver: "sqlite3"}
	MySQL    = Dialect{Driver: "mysql"}
	Postgres = Dialect{Driver: "postgres"}
)

// rebind заменяет плейсхолдеры ? на $1, $2, ... для postgres.
func (d Dialect) rebind(query string) string {
	if d.Driver != Postgres.Driver {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ============================================================
// DSN
// ============================================================

// ParseDSN выбирает драйвер по схеме адреса. Путь к файлу .db/.sqlite
// или схема sqlite:// открывают SQLite; mysql:// и postgres:// открывают сетевые базы.
func ParseDSN(dsn string) (Dialect, string, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return Dialect{}, "", fmt.Errorf("empty dsn")
	}

	if strings.HasPrefix(dsn, "file:") {
		return SQLite, dsn, nil
	}
	if isSQLitePath(dsn) {
		return SQLite, sqliteDSN(dsn), nil
	}

	u, err := url.Parse(dsn)
	if err != nil {
		return Dialect{}, "", fmt.Errorf("invalid dsn: %w", err)
	}

	switch u.Scheme {
	case "sqlite", "sqlite3":
		path := u.Host + u.Path
		if path == "" {
			return Dialect{}, "", fmt.Errorf("sqlite dsn without path")
		}
		return SQLite, sqliteDSN(path), nil

	case "mysql":
		userInfo := ""
		if u.User != nil {
			if password, ok := u.User.Password(); ok {
				userInfo = fmt.Sprintf("%s:%s@", u.User.Username(), password)
			} else {
				userInfo = u.User.Username() + "@"
			}
		}
		host := u.Host
		if host == "" {
			host = "localhost:3306"
		}
		query := ""
		if u.RawQuery != "" {
			query = "?" + u.RawQuery
		}
		return MySQL, fmt.Sprintf("%stcp(%s)/%s%s", userInfo, host, strings.TrimPrefix(u.Path, "/"), query), nil

	case "postgres", "postgresql":
		return Postgres, strings.Replace(dsn, "postgresql://", "postgres://", 1), nil

	default:
		return Dialect{}, "", fmt.Errorf("unsupported database: %q (supported: sqlite, mysql, postgres)", u.Scheme)
	}
}

func isSQLitePath(dsn string) bool {
	for _, ext := range []string{".db", ".sqlite", ".sqlite3"} {
		if strings.HasSuffix(dsn, ext) && !strings.Contains(dsn, "://") {
			return true
		}
	}
	return false
}

func sqliteDSN(path string) string {
	return fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", path)
}

// Open открывает базу по DSN. Для SQLite создаётся каталог файла и
// соединение ограничивается одним.
func Open(dsn string) (*sql.DB, Dialect, error) {
	dialect, driverDSN, err := ParseDSN(dsn)
	if err != nil {
		return nil, Dialect{}, err
	}

	if dialect == SQLite {
		if path := sqlitePath(driverDSN); path != "" && path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, Dialect{}, fmt.Errorf("mkdir db dir: %w", err)
			}
		}
	}

	db, err := sql.Open(dialect.Driver, driverDSN)
	if err != nil {
		return nil, Dialect{}, fmt.Errorf("open %s: %w", dialect.Driver, err)
	}
	if dialect == SQLite {
		db.SetMaxOpenConns(1)
	}
	return db, dialect, nil
}

func sqlitePath(dsn string) string {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return path
}
