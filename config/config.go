package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Storage backend identifiers accepted in STORAGE_BACKEND.
const (
	BackendFile  = "file"
	BackendMongo = "mongo"
	BackendMySQL = "mysql"
)

// Config holds the application's configuration values.
type Config struct {
	AppName        string `json:"appname"`
	AppEnv         string `json:"appenv"`
	AppPort        uint16 `json:"appport"`
	GinMode        string `json:"ginmode"`
	StorageBackend string `json:"storagebackend"`
	DataFile       string `json:"datafile"`
	MongoURI       string `json:"mongouri"`
	DBHost         string `json:"dbhost"`
	DBPort         uint16 `json:"dbport"`
	DBName         string `json:"dbname"`
	DBUser         string `json:"dbuser"`
	DBPass         string `json:"dbpass"`
	CardTemplate   string `json:"cardtemplate"`
}

var config *Config
var once sync.Once

// LoadConfig loads environment variables from a .env file when present and
// returns a singleton Config instance.
func LoadConfig() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Debugf("no .env file loaded: %v", err)
		}

		appPort, _ := strconv.ParseUint(envOr("APPPORT", "3000"), 10, 16)
		dbPort, _ := strconv.ParseUint(envOr("DBPORT", "3306"), 10, 16)

		config = &Config{
			AppName:        envOr("APPNAME", "Nector Patient Card Service"),
			AppEnv:         os.Getenv("APPENV"),
			AppPort:        uint16(appPort),
			GinMode:        os.Getenv("GINMODE"),
			StorageBackend: envOr("STORAGE_BACKEND", BackendFile),
			DataFile:       envOr("DATA_FILE", "data/patients.json"),
			MongoURI:       os.Getenv("MONGODB_URI"),
			DBHost:         os.Getenv("DBHOST"),
			DBPort:         uint16(dbPort),
			DBName:         os.Getenv("DBNAME"),
			DBUser:         os.Getenv("DBUSER"),
			DBPass:         os.Getenv("DBPASS"),
			CardTemplate:   envOr("CARD_TEMPLATE", "assets/card.jpg"),
		}
	})
	return config
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ConnectMySQL establishes a connection to a MySQL database using the
// configuration values.
func ConnectMySQL() (*gorm.DB, error) {
	cfg := LoadConfig()
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}
