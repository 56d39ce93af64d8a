package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	defaultAddress     = ":4000"
	defaultDriver      = "memory"
	defaultCountryCode = "39"
	defaultSessionTTL  = 12 * time.Hour
	defaultRateLimit   = 3
	defaultRateWindow  = time.Hour
	defaultProvider    = "local"
)

// FieldConfig declares one editable field of a collection schema.
type FieldConfig struct {
	Key         string   `yaml:"key"`
	Label       string   `yaml:"label"`
	Type        string   `yaml:"type"`
	Options     []string `yaml:"options"`
	Max         int      `yaml:"max"`
	ShowInTable bool     `yaml:"show_in_table"`
}

// SchemaConfig overrides the admin schema of one collection.
type SchemaConfig struct {
	Collection string        `yaml:"collection"`
	Title      string        `yaml:"title"`
	Fields     []FieldConfig `yaml:"fields"`
}

type ServerConfig struct {
	Address     string   `yaml:"address"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	URL    string `yaml:"url"`
}

type FirebaseConfig struct {
	ProjectID       string `yaml:"project_id"`
	CredentialsFile string `yaml:"credentials_file"`
	APIKey          string `yaml:"api_key"`
	OperatorTopic   string `yaml:"operator_topic"`
}

// ContactsConfig holds the public contact identifiers of the illustrator.
type ContactsConfig struct {
	PhoneNumber string `yaml:"phone_number" json:"phoneNumber"`
	CountryCode string `yaml:"country_code" json:"countryCode"`
	Email       string `yaml:"email" json:"email"`
	Instagram   string `yaml:"instagram" json:"instagram,omitempty"`
}

type ShopConfig struct {
	URL          string   `yaml:"url"`
	SalesStopped bool     `yaml:"sales_stopped"`
	Collections  []string `yaml:"collections"`
}

type EmailJSConfig struct {
	ServiceID           string `yaml:"service_id"`
	OperatorTemplateID  string `yaml:"operator_template_id"`
	RequesterTemplateID string `yaml:"requester_template_id"`
	PublicKey           string `yaml:"public_key"`
	PrivateKey          string `yaml:"private_key"`
	Endpoint            string `yaml:"endpoint"`
}

type RedisConfig struct {
	Addr      string        `yaml:"addr"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	RateLimit int           `yaml:"rate_limit"`
	Window    time.Duration `yaml:"window"`
}

type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	PublicURL string `yaml:"public_url"`
}

type AdminConfig struct {
	Provider     string        `yaml:"provider"`
	Email        string        `yaml:"email"`
	PasswordHash string        `yaml:"password_hash"`
	JWTSecret    string        `yaml:"jwt_secret"`
	SessionTTL   time.Duration `yaml:"session_ttl"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Firebase FirebaseConfig `yaml:"firebase"`
	Contacts ContactsConfig `yaml:"contacts"`
	Shop     ShopConfig     `yaml:"shop"`
	EmailJS  EmailJSConfig  `yaml:"emailjs"`
	Redis    RedisConfig    `yaml:"redis"`
	S3       S3Config       `yaml:"s3"`
	Admin    AdminConfig    `yaml:"admin"`
	Schemas  []SchemaConfig `yaml:"schemas"`
}

// IsShopCollection reports whether items of collection are sold through the
// external shop.
func (c Config) IsShopCollection(collection string) bool {
	for _, s := range c.Shop.Collections {
		if s == collection {
			return true
		}
	}
	return false
}

// LoadConfig reads the YAML file at path, when given, then applies
// environment overrides and defaults.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("unmarshal config data: %w", err)
			}
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	readString("PORT", func(v string) { cfg.Server.Address = ":" + strings.TrimPrefix(v, ":") })
	readString("SERVER_ADDRESS", func(v string) { cfg.Server.Address = v })
	readString("CORS_ORIGINS", func(v string) { cfg.Server.CORSOrigins = splitList(v) })
	readString("DATABASE_DRIVER", func(v string) { cfg.Database.Driver = v })
	readString("DATABASE_URL", func(v string) { cfg.Database.URL = v })
	readString("FIREBASE_PROJECT_ID", func(v string) { cfg.Firebase.ProjectID = v })
	readString("FIREBASE_CREDENTIALS_FILE", func(v string) { cfg.Firebase.CredentialsFile = v })
	readString("FIREBASE_API_KEY", func(v string) { cfg.Firebase.APIKey = v })
	readString("FIREBASE_OPERATOR_TOPIC", func(v string) { cfg.Firebase.OperatorTopic = v })
	readString("CONTACT_PHONE", func(v string) { cfg.Contacts.PhoneNumber = v })
	readString("CONTACT_EMAIL", func(v string) { cfg.Contacts.Email = v })
	readString("SHOP_URL", func(v string) { cfg.Shop.URL = v })
	readString("EMAILJS_SERVICE_ID", func(v string) { cfg.EmailJS.ServiceID = v })
	readString("EMAILJS_OPERATOR_TEMPLATE_ID", func(v string) { cfg.EmailJS.OperatorTemplateID = v })
	readString("EMAILJS_REQUESTER_TEMPLATE_ID", func(v string) { cfg.EmailJS.RequesterTemplateID = v })
	readString("EMAILJS_PUBLIC_KEY", func(v string) { cfg.EmailJS.PublicKey = v })
	readString("EMAILJS_PRIVATE_KEY", func(v string) { cfg.EmailJS.PrivateKey = v })
	readString("REDIS_ADDR", func(v string) { cfg.Redis.Addr = v })
	readString("REDIS_PASSWORD", func(v string) { cfg.Redis.Password = v })
	readString("S3_ENDPOINT", func(v string) { cfg.S3.Endpoint = v })
	readString("S3_REGION", func(v string) { cfg.S3.Region = v })
	readString("S3_BUCKET", func(v string) { cfg.S3.Bucket = v })
	readString("S3_ACCESS_KEY", func(v string) { cfg.S3.AccessKey = v })
	readString("S3_SECRET_KEY", func(v string) { cfg.S3.SecretKey = v })
	readString("S3_PUBLIC_URL", func(v string) { cfg.S3.PublicURL = v })
	readString("ADMIN_PROVIDER", func(v string) { cfg.Admin.Provider = v })
	readString("ADMIN_EMAIL", func(v string) { cfg.Admin.Email = v })
	readString("ADMIN_PASSWORD_HASH", func(v string) { cfg.Admin.PasswordHash = v })
	readString("ADMIN_JWT_SECRET", func(v string) { cfg.Admin.JWTSecret = v })

	if v, err := readBoolEnv("SALES_STOPPED"); err != nil {
		return fmt.Errorf("parse SALES_STOPPED: %w", err)
	} else if v != nil {
		cfg.Shop.SalesStopped = *v
	}

	if v, err := readIntEnv("REDIS_DB"); err != nil {
		return fmt.Errorf("parse REDIS_DB: %w", err)
	} else if v != nil {
		cfg.Redis.DB = *v
	}

	if v, err := readIntEnv("COMMISSION_RATE_LIMIT"); err != nil {
		return fmt.Errorf("parse COMMISSION_RATE_LIMIT: %w", err)
	} else if v != nil {
		cfg.Redis.RateLimit = *v
	}

	if v := os.Getenv("ADMIN_SESSION_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse ADMIN_SESSION_TTL: %w", err)
		}
		cfg.Admin.SessionTTL = ttl
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Address == "" {
		cfg.Server.Address = defaultAddress
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = defaultDriver
	}
	if cfg.Contacts.CountryCode == "" {
		cfg.Contacts.CountryCode = defaultCountryCode
	}
	if cfg.Shop.Collections == nil {
		cfg.Shop.Collections = []string{"spille"}
	}
	if cfg.Redis.RateLimit == 0 {
		cfg.Redis.RateLimit = defaultRateLimit
	}
	if cfg.Redis.Window == 0 {
		cfg.Redis.Window = defaultRateWindow
	}
	if cfg.Admin.Provider == "" {
		cfg.Admin.Provider = defaultProvider
	}
	if cfg.Admin.SessionTTL == 0 {
		cfg.Admin.SessionTTL = defaultSessionTTL
	}
}

// Validate checks the combinations the server cannot start without.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case "memory":
	case "firestore":
		if c.Firebase.ProjectID == "" {
			return errors.New("config: firebase.project_id is required for the firestore driver")
		}
	case "postgres", "mysql":
		if c.Database.URL == "" {
			return fmt.Errorf("config: database.url is required for the %s driver", c.Database.Driver)
		}
	default:
		return fmt.Errorf("config: unknown database driver %q", c.Database.Driver)
	}

	switch c.Admin.Provider {
	case "local":
	case "firebase":
		if c.Firebase.APIKey == "" {
			return errors.New("config: firebase.api_key is required for the firebase admin provider")
		}
	default:
		return fmt.Errorf("config: unknown admin provider %q", c.Admin.Provider)
	}

	if c.Admin.JWTSecret == "" {
		return errors.New("config: admin.jwt_secret is required")
	}
	if c.Admin.SessionTTL < 0 {
		return errors.New("config: admin.session_ttl must not be negative")
	}
	return nil
}

func readString(key string, set func(string)) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		set(v)
	}
}

func readIntEnv(key string) (*int, error) {
	v := os.Getenv(key)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func readBoolEnv(key string) (*bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
