package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/match-commentary/internal/domain/commentary"
	"github.com/riskibarqy/match-commentary/internal/platform/logging"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

// Config stores runtime configuration for one pipeline run.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	LogLevel       logging.Level

	InputPath     string
	OutputPath    string
	SummaryPath   string
	MaxWorkers    int
	OwnGoalPolicy commentary.OwnGoalPolicy
	OwnGoalValues []string
	Columns       ColumnConfig

	SentimentEnabled  bool
	SentimentPerEvent bool

	DatasetDBDriver  string
	DatasetDBURL     string
	DatasetDBTimeout time.Duration

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

// ColumnConfig names the input CSV header cells.
type ColumnConfig struct {
	MatchID  string
	Team     string
	Opponent string
	Text     string
	IsGoal   string
	OwnGoal  string
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	maxWorkers, err := getEnvAsInt("PIPELINE_MAX_WORKERS", runtime.GOMAXPROCS(0))
	if err != nil {
		return Config{}, fmt.Errorf("parse PIPELINE_MAX_WORKERS: %w", err)
	}
	if maxWorkers < 1 {
		return Config{}, fmt.Errorf("PIPELINE_MAX_WORKERS must be >= 1")
	}

	ownGoalPolicy, err := commentary.ParseOwnGoalPolicy(getEnv("PIPELINE_OWN_GOAL_POLICY", string(commentary.OwnGoalBeneficiary)))
	if err != nil {
		return Config{}, fmt.Errorf("parse PIPELINE_OWN_GOAL_POLICY: %w", err)
	}
	ownGoalValues := splitCSV(getEnv("PIPELINE_OWN_GOAL_VALUES", "15"))
	if len(ownGoalValues) == 0 {
		return Config{}, fmt.Errorf("PIPELINE_OWN_GOAL_VALUES cannot be empty")
	}

	sentimentEnabled, err := strconv.ParseBool(getEnv("PIPELINE_SENTIMENT_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PIPELINE_SENTIMENT_ENABLED: %w", err)
	}
	sentimentPerEvent, err := strconv.ParseBool(getEnv("PIPELINE_SENTIMENT_PER_EVENT", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PIPELINE_SENTIMENT_PER_EVENT: %w", err)
	}

	dbDriver := strings.ToLower(strings.TrimSpace(getEnv("DATASET_DB_DRIVER", "")))
	dbURL := strings.TrimSpace(getEnv("DATASET_DB_URL", ""))
	switch dbDriver {
	case "":
	case DBDriverPostgres, DBDriverSQLite:
		if dbURL == "" {
			return Config{}, fmt.Errorf("DATASET_DB_URL is required when DATASET_DB_DRIVER=%s", dbDriver)
		}
	default:
		return Config{}, fmt.Errorf("invalid DATASET_DB_DRIVER %q: valid values are %s, %s", dbDriver, DBDriverPostgres, DBDriverSQLite)
	}
	dbTimeout, err := time.ParseDuration(getEnv("DATASET_DB_TIMEOUT", "2m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DATASET_DB_TIMEOUT: %w", err)
	}
	if dbTimeout <= 0 {
		return Config{}, fmt.Errorf("DATASET_DB_TIMEOUT must be > 0")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    getEnv("APP_SERVICE_NAME", "match-commentary-pipeline"),
		ServiceVersion: getEnv("APP_SERVICE_VERSION", "dev"),
		LogLevel:       parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),

		InputPath:     strings.TrimSpace(getEnv("PIPELINE_INPUT_PATH", "data/events.csv")),
		OutputPath:    strings.TrimSpace(getEnv("PIPELINE_OUTPUT_PATH", "data/commentary_sides.csv")),
		SummaryPath:   strings.TrimSpace(getEnv("PIPELINE_SUMMARY_PATH", "")),
		MaxWorkers:    maxWorkers,
		OwnGoalPolicy: ownGoalPolicy,
		OwnGoalValues: ownGoalValues,
		Columns: ColumnConfig{
			MatchID:  getEnv("PIPELINE_COLUMN_MATCH_ID", "id_odsp"),
			Team:     getEnv("PIPELINE_COLUMN_TEAM", "event_team"),
			Opponent: getEnv("PIPELINE_COLUMN_OPPONENT", "opponent"),
			Text:     getEnv("PIPELINE_COLUMN_TEXT", "text"),
			IsGoal:   getEnv("PIPELINE_COLUMN_IS_GOAL", "is_goal"),
			OwnGoal:  getEnv("PIPELINE_COLUMN_OWN_GOAL", "event_type2"),
		},

		SentimentEnabled:  sentimentEnabled,
		SentimentPerEvent: sentimentPerEvent,

		DatasetDBDriver:  dbDriver,
		DatasetDBURL:     dbURL,
		DatasetDBTimeout: dbTimeout,

		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,

		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))

	return cfg, nil
}

// WithPaths overrides the input and output paths, e.g. from command-line
// arguments. Empty values keep the configured path.
func (c Config) WithPaths(input, output string) Config {
	if v := strings.TrimSpace(input); v != "" {
		c.InputPath = v
	}
	if v := strings.TrimSpace(output); v != "" {
		c.OutputPath = v
	}
	return c
}

func (c Config) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("input path is required (PIPELINE_INPUT_PATH)")
	}
	if c.OutputPath == "" {
		return fmt.Errorf("output path is required (PIPELINE_OUTPUT_PATH)")
	}
	if c.InputPath == c.OutputPath {
		return fmt.Errorf("output path %q must differ from input path", c.OutputPath)
	}
	return nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
