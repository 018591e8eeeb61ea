package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App           App           `mapstructure:",squash"`
	Server        Server        `mapstructure:",squash"`
	Database      Database      `mapstructure:",squash"`
	Journal       Journal       `mapstructure:",squash"`
	Auth          Auth          `mapstructure:",squash"`
	Store         Store         `mapstructure:",squash"`
	Gateway       Gateway       `mapstructure:",squash"`
	DispatchSweep DispatchSweep `mapstructure:",squash"`
	AMQP          AMQP          `mapstructure:",squash"`
	Report        Report        `mapstructure:",squash"`
}

type Server struct {
	Host               string   `mapstructure:"host"`
	Port               string   `mapstructure:"port"`
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type Journal struct {
	Enabled    bool `mapstructure:"journal_enabled"`
	BufferSize int  `mapstructure:"journal_buffer_size"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Auth struct {
	Secret string `mapstructure:"auth_secret"`
}

type Store struct {
	CascadePolicy string `mapstructure:"store_cascade_policy"`
}

type Gateway struct {
	BaseURL     string        `mapstructure:"gateway_base_url"`
	APIKey      string        `mapstructure:"gateway_api_key"`
	PublishPath string        `mapstructure:"gateway_publish_path"`
	HealthPath  string        `mapstructure:"gateway_health_path"`
	MockMode    bool          `mapstructure:"gateway_mock_mode"`
	HTTPTimeout time.Duration `mapstructure:"gateway_http_timeout"`
}

type DispatchSweep struct {
	CronSchedule  string        `mapstructure:"dispatch_sweep_cron"`
	Enabled       bool          `mapstructure:"dispatch_sweep_enabled"`
	MaxConcurrent int           `mapstructure:"dispatch_max_concurrent"`
	Timeout       time.Duration `mapstructure:"dispatch_timeout"`
	MaxAttempts   int           `mapstructure:"dispatch_max_attempts"`
}

type AMQP struct {
	URL      string `mapstructure:"amqp_url"`
	Exchange string `mapstructure:"amqp_exchange"`
}

type Report struct {
	Bucket string `mapstructure:"report_s3_bucket"`
	Prefix string `mapstructure:"report_s3_prefix"`
	Region string `mapstructure:"report_s3_region"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/campaigns?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("JOURNAL_ENABLED", false)
	viper.SetDefault("JOURNAL_BUFFER_SIZE", 1024)

	viper.SetDefault("AUTH_SECRET", "")

	viper.SetDefault("STORE_CASCADE_POLICY", "orphan")

	viper.SetDefault("GATEWAY_BASE_URL", "http://localhost:5678")
	viper.SetDefault("GATEWAY_API_KEY", "")
	viper.SetDefault("GATEWAY_PUBLISH_PATH", "/webhook/publish")
	viper.SetDefault("GATEWAY_HEALTH_PATH", "/webhook/health")
	viper.SetDefault("GATEWAY_MOCK_MODE", true) // ONLY LOCAL
	viper.SetDefault("GATEWAY_HTTP_TIMEOUT", "15s")

	// Defaults para a varredura de despacho
	viper.SetDefault("DISPATCH_SWEEP_CRON", "* * * * *") // A cada minuto
	viper.SetDefault("DISPATCH_SWEEP_ENABLED", true)
	viper.SetDefault("DISPATCH_MAX_CONCURRENT", 3) // 3 despachos concorrentes
	viper.SetDefault("DISPATCH_TIMEOUT", "10s")
	viper.SetDefault("DISPATCH_MAX_ATTEMPTS", 3)

	viper.SetDefault("AMQP_URL", "")
	viper.SetDefault("AMQP_EXCHANGE", "campaign-hub.dispatch")

	viper.SetDefault("REPORT_S3_BUCKET", "")
	viper.SetDefault("REPORT_S3_PREFIX", "reports/")
	viper.SetDefault("REPORT_S3_REGION", "us-east-1")

	viper.SetDefault("LOG_LEVEL", "info")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Validate rejeita combinações de configuração que impedem o boot
func (c *Config) Validate() error {
	switch strings.ToLower(c.Store.CascadePolicy) {
	case "orphan", "delete":
		c.Store.CascadePolicy = strings.ToLower(c.Store.CascadePolicy)
	default:
		return fmt.Errorf("invalid STORE_CASCADE_POLICY %q: expected orphan or delete", c.Store.CascadePolicy)
	}

	if c.DispatchSweep.MaxAttempts < 1 {
		return fmt.Errorf("DISPATCH_MAX_ATTEMPTS must be at least 1, got %d", c.DispatchSweep.MaxAttempts)
	}
	if c.DispatchSweep.MaxConcurrent < 1 {
		return fmt.Errorf("DISPATCH_MAX_CONCURRENT must be at least 1, got %d", c.DispatchSweep.MaxConcurrent)
	}
	if !c.Gateway.MockMode && c.Gateway.BaseURL == "" {
		return fmt.Errorf("GATEWAY_BASE_URL is required when GATEWAY_MOCK_MODE is false")
	}

	return nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado, usando variáveis de ambiente")
}
