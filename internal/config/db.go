package config

// Supported values of DB.GormEngine.
const (
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

// DB holds the database configuration settings.
type DB struct {
	Extras       string // driver specific DSN options
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	Path         string // database file, sqlite only
	GormEngine   string // mysql, postgres or sqlite
	MaxOpenConns int
	MaxIdleConns int
}
