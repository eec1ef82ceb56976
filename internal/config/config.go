package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type StoreDriver string

const (
	DriverFile   StoreDriver = "file"
	DriverSQLite StoreDriver = "sqlite"
	DriverRedis  StoreDriver = "redis"
	DriverMemory StoreDriver = "memory"
)

type Config struct {
	Port              int
	StoreDriver       StoreDriver
	DataFile          string
	SQLitePath        string
	RedisURL          string
	RedisKey          string
	AutoStartSchedule string
	RateLimitRPS      float64
	RateLimitBurst    int
	CORSOrigins       []string
}

// Load reads the configuration from the environment. A .env file is loaded first when
// present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := intEnv("PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("PORT must be between 1 and 65535, got %d", port)
	}

	driver := StoreDriver(strings.ToLower(getEnv("STORE_DRIVER", string(DriverFile))))
	switch driver {
	case DriverFile, DriverSQLite, DriverRedis, DriverMemory:
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", driver)
	}

	redisURL := os.Getenv("REDIS_URL")
	if driver == DriverRedis && redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL environment variable is not set")
	}

	rps, err := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "5"), 64)
	if err != nil || rps <= 0 {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS %q", os.Getenv("RATE_LIMIT_RPS"))
	}
	burst, err := intEnv("RATE_LIMIT_BURST", 20)
	if err != nil {
		return nil, err
	}
	if burst < 1 {
		return nil, fmt.Errorf("RATE_LIMIT_BURST must be at least 1, got %d", burst)
	}

	var origins []string
	for _, origin := range strings.Split(getEnv("CORS_ORIGINS", "*"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}

	return &Config{
		Port:              port,
		StoreDriver:       driver,
		DataFile:          getEnv("DATA_FILE", "tournament_data.json"),
		SQLitePath:        getEnv("SQLITE_PATH", "ski_bracket.db"),
		RedisURL:          redisURL,
		RedisKey:          getEnv("REDIS_KEY", "ski-bracket:state"),
		AutoStartSchedule: getEnv("AUTO_START_SCHEDULE", "@every 60s"),
		RateLimitRPS:      rps,
		RateLimitBurst:    burst,
		CORSOrigins:       origins,
	}, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return n, nil
}
