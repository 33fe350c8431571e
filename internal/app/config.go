package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	rediscache "github.com/yungbote/learnhub-backend/internal/clients/redis"
	"github.com/yungbote/learnhub-backend/internal/data/db"
	"github.com/yungbote/learnhub-backend/internal/observability"
	"github.com/yungbote/learnhub-backend/internal/platform/envutil"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

const defaultJWTSecret = "defaultsecret"

// Sources names the optional files consulted before the environment.
type Sources struct {
	EnvFile    string
	ConfigFile string
}

// LoadEnv applies the .env file and then the YAML config file to the process
// environment. Neither overrides a variable that is already set, so the real
// environment wins, then .env, then YAML.
func LoadEnv(src Sources) error {
	envFile := strings.TrimSpace(src.EnvFile)
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		if src.EnvFile != "" || !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	configFile := strings.TrimSpace(src.ConfigFile)
	if configFile == "" {
		configFile = strings.TrimSpace(os.Getenv("CONFIG_FILE"))
	}
	if configFile == "" {
		return nil
	}
	values, err := readConfigFile(configFile)
	if err != nil {
		return err
	}
	for k, v := range values {
		if _, set := os.LookupEnv(k); set {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return fmt.Errorf("apply %s: %w", k, err)
		}
	}
	return nil
}

// readConfigFile reads a flat YAML mapping of environment keys to scalar
// values. Sequences are joined with commas, matching envutil.List.
func readConfigFile(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	out := make(map[string]string, len(doc))
	for k, node := range doc {
		key := strings.ToUpper(strings.TrimSpace(k))
		switch node.Kind {
		case yaml.ScalarNode:
			out[key] = node.Value
		case yaml.SequenceNode:
			parts := make([]string, 0, len(node.Content))
			for _, item := range node.Content {
				if item.Kind != yaml.ScalarNode {
					return nil, fmt.Errorf("config key %s: only scalar list items are supported", k)
				}
				parts = append(parts, item.Value)
			}
			out[key] = strings.Join(parts, ",")
		default:
			return nil, fmt.Errorf("config key %s: expected a scalar or a list", k)
		}
	}
	return out, nil
}

type Config struct {
	Port    string
	GinMode string

	DB db.Config

	JWTSecretKey   string
	AccessTokenTTL time.Duration
	ResetLink      string

	RecommendFirstCategoryOnly bool
	RecommendExcludeSource     bool

	Cache      rediscache.CacheConfig
	AvatarFont string
	Otel       observability.OtelConfig

	CORSOrigins []string
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:                       envutil.String("PORT", "8080"),
		GinMode:                    envutil.String("GIN_MODE", ""),
		DB:                         db.ConfigFromEnv(),
		JWTSecretKey:               envutil.String("JWT_SECRET_KEY", defaultJWTSecret),
		AccessTokenTTL:             envutil.Seconds("ACCESS_TOKEN_TTL", 24*time.Hour),
		ResetLink:                  envutil.String("PASSWORD_RESET_LINK", "http://localhost:3000/reset-password"),
		RecommendFirstCategoryOnly: envutil.Bool("RECOMMEND_FIRST_CATEGORY_ONLY", false),
		RecommendExcludeSource:     envutil.Bool("RECOMMEND_EXCLUDE_SOURCE", false),
		Cache:                      rediscache.CacheConfigFromEnv(),
		AvatarFont:                 envutil.String("AVATAR_FONT", ""),
		Otel:                       observability.OtelConfigFromEnv(),
		CORSOrigins:                envutil.List("CORS_ALLOW_ORIGINS"),
	}
	if cfg.JWTSecretKey == defaultJWTSecret {
		log.Warn("JWT_SECRET_KEY not set; using the development default")
	}
	return cfg
}

func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}
