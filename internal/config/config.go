package config

import "os"

type Config struct {
	Port     string
	DBDriver string
	DBDSN    string
}

// FromEnv builds a Config from environment variables, with sane defaults.
func FromEnv() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	driver := os.Getenv("CONSUMPTIONS_DB_DRIVER")
	if driver == "" {
		driver = "memory"
	}
	dsn := os.Getenv("CONSUMPTIONS_DB_DSN")
	if dsn == "" && driver == "sqlite" {
		dsn = "consumptions.db"
	}
	return Config{
		Port:     port,
		DBDriver: driver,
		DBDSN:    dsn,
	}
}
