package infra

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix env prefix for viper
const EnvPrefix = "LEARNHUB"

// runtime environments
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// AppConfig App option object
type AppConfig struct {
	AppID          string        `mapstructure:"app_id" json:"app_id" yaml:"app_id" validate:"required"`            // Application ID
	Host           string        `mapstructure:"host" json:"host" yaml:"host"`                                      // bind host address
	Port           int           `mapstructure:"port" json:"port" yaml:"port"`                                      // bind listen port
	Env            string        `mapstructure:"env" json:"env" yaml:"env" validate:"oneof=development production"` // runtime environment
	RequestTimeout time.Duration `mapstructure:"request_timeout" json:"request_timeout" yaml:"request_timeout"`
	SessionTimeout time.Duration `mapstructure:"session_timeout" json:"session_timeout" yaml:"session_timeout"`
	Database       struct {
		Driver   string `mapstructure:"driver" json:"driver" yaml:"driver" validate:"oneof=postgres mysql"`          // driver name
		Host     string `mapstructure:"host" json:"host" yaml:"host" validate:"required"`                            // server host
		MaxConn  int32  `mapstructure:"maxconn" json:"maxconn" yaml:"maxconn" validate:"min=1"`                      // maximum opening connections number
		Password string `mapstructure:"password" json:"-" yaml:"password" validate:"required"`                       // db password
		Port     int    `mapstructure:"port" json:"port" yaml:"port"`                                                // server port
		Protocol string `mapstructure:"protocol" json:"protocol" yaml:"protocol" validate:"omitempty,oneof=tcp udp"` // connection protocol, eg.tcp
		Query    string `mapstructure:"query" json:"query" yaml:"query"`                                             // DSN query parameter
		Schema   string `mapstructure:"schema" json:"schema" yaml:"schema" validate:"required"`                      // use schema
		User     string `mapstructure:"username" json:"username" yaml:"username" validate:"required"`                // db username
	} `mapstructure:"database" json:"database" yaml:"database"`
	Logging struct {
		FilePath string `mapstructure:"file_path" json:"file_path" yaml:"file_path"`                            // log file path
		Level    string `mapstructure:"level" json:"level" yaml:"level" validate:"oneof=debug info warn error"` // global logging level
	} `mapstructure:"logging" json:"logging" yaml:"logging"`
	Security struct {
		JWTMethod string `mapstructure:"jwt_method" json:"jwt_method" yaml:"jwt_method" validate:"oneof=HS256 HS512"`
		JWTSecret string `mapstructure:"jwt_secret" json:"-" yaml:"jwt_secret" validate:"required"`
		TokenName string `mapstructure:"token_name" json:"token_name" yaml:"token_name" validate:"required"` // cookie name checked when no bearer token is sent
	} `mapstructure:"security" json:"security" yaml:"security"`
	KVStore struct {
		Host     string `mapstructure:"host" json:"host" yaml:"host"`
		Port     int    `mapstructure:"port" json:"port" yaml:"port"`
		Password string `mapstructure:"password" json:"-" yaml:"password"`
	} `mapstructure:"kv" json:"kv" yaml:"kv"`
	Storage struct {
		Region          string `mapstructure:"region" json:"region" yaml:"region"`
		Bucket          string `mapstructure:"bucket" json:"bucket" yaml:"bucket"`
		Endpoint        string `mapstructure:"endpoint" json:"endpoint" yaml:"endpoint"`       // custom S3 compatible endpoint
		PublicURL       string `mapstructure:"public_url" json:"public_url" yaml:"public_url"` // base of the returned object URL
		AccessKeyID     string `mapstructure:"access_key_id" json:"-" yaml:"access_key_id"`
		SecretAccessKey string `mapstructure:"secret_access_key" json:"-" yaml:"secret_access_key"`
		MaxSize         int64  `mapstructure:"max_size" json:"max_size" yaml:"max_size" validate:"min=1"`
	} `mapstructure:"storage" json:"storage" yaml:"storage"`
	Mail struct {
		Provider     string `mapstructure:"provider" json:"provider" yaml:"provider" validate:"oneof=console sendgrid"`
		SendgridKey  string `mapstructure:"sendgrid_key" json:"-" yaml:"sendgrid_key" validate:"required_if=Provider sendgrid"`
		FromName     string `mapstructure:"from_name" json:"from_name" yaml:"from_name"`
		FromEmail    string `mapstructure:"from_email" json:"from_email" yaml:"from_email" validate:"omitempty,email"`
		SupportInbox string `mapstructure:"support_inbox" json:"support_inbox" yaml:"support_inbox" validate:"omitempty,email"`
	} `mapstructure:"mail" json:"mail" yaml:"mail"`
	Playback struct {
		FlushInterval time.Duration `mapstructure:"flush_interval" json:"flush_interval" yaml:"flush_interval"`
	} `mapstructure:"playback" json:"playback" yaml:"playback"`
	Locale struct {
		Timezone string `mapstructure:"timezone" json:"timezone" yaml:"timezone"`
	} `mapstructure:"locale" json:"locale" yaml:"locale"`
	Audit struct {
		Interval time.Duration `mapstructure:"interval" json:"interval" yaml:"interval"` // 0 disables the job
	} `mapstructure:"audit" json:"audit" yaml:"audit"`
	Catalog struct {
		FixturePath string `mapstructure:"fixture_path" json:"fixture_path" yaml:"fixture_path"` // serve catalog from a seed file
	} `mapstructure:"catalog" json:"catalog" yaml:"catalog"`
	DevOP struct {
		APM          bool   `mapstructure:"apm" json:"apm" yaml:"apm"`
		RollbarToken string `mapstructure:"rollbar_token" json:"-" yaml:"rollbar_token"`
	} `mapstructure:"devop" json:"devop" yaml:"devop"`
}

// InitConfig init app config using viper
func InitConfig() (*AppConfig, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	// app
	pflag.String("host", "", "binding address")
	pflag.String("app_id", "learnhub", "application identifier")
	pflag.String("env", EnvDevelopment, "runtime environment, can be 'development' or 'production'")
	pflag.Int("port", 8081, "listening port")
	pflag.Duration("request_timeout", 30*time.Second, "request timeout(m, s and h units are supported), eg.30s")
	pflag.Duration("session_timeout", 1*time.Hour, "lifetime of the sign-out blacklist entry when the token carries no expiry")

	// database
	pflag.String("database.driver", "postgres", "database driver to use, can be 'postgres' or 'mysql'")
	pflag.String("database.host", "127.0.0.1", "database host")
	pflag.Int("database.port", 5432, "database server port")
	pflag.String("database.protocol", "", "connection protocol(if mysql is used, this flag must be set), eg.tcp")
	pflag.String("database.username", "", "database username (required)")
	pflag.String("database.password", "", "database password (required)")
	pflag.String("database.schema", "", "database schema (required)")
	pflag.String("database.query", "", `additional DSN query parameters('?' is auto prefixed), if you work with mysql and wish to
work with time.Time, you may specify "parseTime=true"`)
	pflag.Int32("database.maxconn", 50, "max connection count")

	// logging
	pflag.String("logging.level", "info", "logging level")
	pflag.String("logging.file_path", "", "log to file")

	// security
	pflag.String("security.jwt_method", "HS256", "hash algorithm used by the auth provider to sign JWT")
	pflag.String("security.jwt_secret", "", "JWT secret shared with the auth provider (required)")
	pflag.String("security.token_name", "access_token", "cookie name to read the token from")

	// kv storage
	pflag.String("kv.host", "127.0.0.1", "kv host")
	pflag.Int("kv.port", 6379, "kv server port")
	pflag.String("kv.password", "", "kv server password")

	// object storage
	pflag.String("storage.region", "us-east-1", "object storage region")
	pflag.String("storage.bucket", "avatars", "object storage bucket")
	pflag.String("storage.endpoint", "", "custom S3 compatible endpoint")
	pflag.String("storage.public_url", "", "public base URL of stored objects")
	pflag.String("storage.access_key_id", "", "object storage access key, leave empty to use the default credential chain")
	pflag.String("storage.secret_access_key", "", "object storage secret key")
	pflag.Int64("storage.max_size", 5<<20, "maximum upload size in bytes")

	// mail
	pflag.String("mail.provider", "console", "mail provider, can be 'console' or 'sendgrid'")
	pflag.String("mail.sendgrid_key", "", "sendgrid API key")
	pflag.String("mail.from_name", "Learnhub", "sender name")
	pflag.String("mail.from_email", "no-reply@learnhub.local", "sender address")
	pflag.String("mail.support_inbox", "", "address notified on new support requests")

	// playback
	pflag.Duration("playback.flush_interval", 2*time.Second, "debounce window for progress writes during playback")

	// locale
	pflag.String("locale.timezone", "America/Sao_Paulo", "timezone used to format timestamps")

	// audit
	pflag.Duration("audit.interval", 24*time.Hour, "progress integrity audit interval, 0 to disable")

	// catalog
	pflag.String("catalog.fixture_path", "", "serve the catalog from a JSON seed file instead of the database")

	// DevOp
	pflag.Bool("devop.apm", false, "enable apm metrics")
	pflag.String("devop.rollbar_token", "", "rollbar access token, empty disables reporting")

	pflag.Parse()
	viper.BindPFlags(pflag.CommandLine)
	viper.AutomaticEnv()
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var config = new(AppConfig)
	if err := viper.Unmarshal(config); err != nil {
		return nil, err
	}
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	if config.Logging.Level == "debug" {
		if configJSON, err := json.MarshalIndent(config, "", "  "); err == nil {
			log.Printf("App config: %s\n", string(configJSON))
		}
	}
	return config, nil
}

func validateConfig(config *AppConfig) error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("mapstructure")
		if name == "-" || name == "" {
			return ""
		}
		return name
	})
	err := validate.Struct(config)
	if _, ok := err.(*validator.InvalidValidationError); ok {
		log.Fatalf("Failed to validate config: %s", err)
	}
	if err == nil {
		return nil
	}

	var msg []string
	for _, field := range err.(validator.ValidationErrors) {
		namespace := field.Namespace()
		fieldName := namespace[strings.IndexByte(namespace, '.')+1:] // trim top level namespace
		switch field.Tag() {
		case "required", "required_if":
			msg = append(msg, fmt.Sprintf("%s is required", fieldName))
		case "oneof":
			msg = append(msg, fmt.Sprintf("%s must be one of (%s)", fieldName, field.Param()))
		case "min":
			msg = append(msg, fmt.Sprintf("%s must be at least %s", fieldName, field.Param()))
		default:
			msg = append(msg, fmt.Sprintf("%s is invalid (%s)", fieldName, field.Tag()))
		}
	}
	return fmt.Errorf("failed to validate config: \n%s", strings.Join(msg, "\n"))
}
