package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	AppConfig Config
	envLoaded bool
)

// Config is the process-wide configuration, loaded once at startup.
type Config struct {
	Environment        string        `json:"environment"`
	ServerPort         string        `json:"server_port"`
	CORSOrigins        []string      `json:"cors_origins"`
	SMTPHelloName      string        `json:"smtp_hello_name"`
	SMTPPort           string        `json:"smtp_port"`
	ProbeTimeout       time.Duration `json:"probe_timeout"`
	MaxMXHosts         int           `json:"max_mx_hosts"`
	BlockedDomains     []string      `json:"blocked_domains,omitempty"`
	FindMaxResultsCap  int           `json:"find_max_results_cap"`
	FindMaxPatternsCap int           `json:"find_max_patterns_cap"`
	ProbeRateGlobal    int           `json:"probe_rate_global"`
	ProbeRatePerDomain int           `json:"probe_rate_per_domain"`
	SentryDSN          string        `json:"-"`
}

func init() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	envLoaded = true
}

func LoadConfig() error {
	AppConfig = Config{
		Environment:        getEnv("ENVIRONMENT", "development"),
		ServerPort:         getEnv("SERVER_PORT", "5000"),
		CORSOrigins:        getEnvAsSlice("CORS_ALLOWED_ORIGINS", nil),
		SMTPHelloName:      getEnv("SMTP_HELLO_NAME", "verify.mailscout.local"),
		SMTPPort:           getEnv("SMTP_PORT", "25"),
		ProbeTimeout:       getEnvAsDuration("PROBE_TIMEOUT", 3*time.Second),
		MaxMXHosts:         getEnvAsInt("MAX_MX_HOSTS", 2),
		BlockedDomains:     getEnvAsSlice("SMTP_BLOCKED_DOMAINS", nil),
		FindMaxResultsCap:  getEnvAsInt("FIND_MAX_RESULTS_CAP", 20),
		FindMaxPatternsCap: getEnvAsInt("FIND_MAX_PATTERNS_CAP", 60),
		ProbeRateGlobal:    getEnvAsInt("PROBE_RATE_GLOBAL", 10),
		ProbeRatePerDomain: getEnvAsInt("PROBE_RATE_PER_DOMAIN", 5),
		SentryDSN:          getEnv("SENTRY_DSN", ""),
	}

	logConfig()
	return nil
}

// Helper functions
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	if !envLoaded && fallback == "" {
		log.Printf("environment variable %s not found and no fallback provided", key)
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvAsSlice(key string, fallback []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func logConfig() {
	log.Println("Loaded configuration:")
	log.Printf("Environment: %s", AppConfig.Environment)
	log.Printf("Server Port: %s", AppConfig.ServerPort)
	log.Printf("Probe timeout: %s, MX hosts per probe: %d", AppConfig.ProbeTimeout, AppConfig.MaxMXHosts)
	log.Printf("Search caps: results=%d patterns=%d", AppConfig.FindMaxResultsCap, AppConfig.FindMaxPatternsCap)
	log.Printf("Sentry enabled: %t", AppConfig.SentryDSN != "")
}
