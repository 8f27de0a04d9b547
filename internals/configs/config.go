package configs

import (
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"paudku_backend/internals/features/finance/ledger"
)

type ServerConfig struct {
	Port        string `mapstructure:"port"`
	Mode        string `mapstructure:"app_mode"`
	Timezone    string `mapstructure:"app_timezone"`
	CORSOrigins string `mapstructure:"cors_origins"`
}

type DatabaseConfig struct {
	User     string `mapstructure:"db_user"`
	Password string `mapstructure:"db_password"`
	Host     string `mapstructure:"db_host"`
	Port     string `mapstructure:"db_port"`
	Name     string `mapstructure:"db_name"`
	SSLMode  string `mapstructure:"db_sslmode"`
}

type OSSConfig struct {
	Endpoint      string `mapstructure:"ali_oss_endpoint"`
	AccessKey     string `mapstructure:"ali_oss_access_key"`
	SecretKey     string `mapstructure:"ali_oss_secret_key"`
	SecurityToken string `mapstructure:"ali_oss_security_token"`
	Bucket        string `mapstructure:"ali_oss_bucket"`
	PublicBase    string `mapstructure:"ali_oss_public_base"`
	Prefix        string `mapstructure:"ali_oss_prefix"`
}

type FinanceConfig struct {
	AttendanceFeePerHead int64  `mapstructure:"attendance_fee_per_head"`
	AdminFeePercent      int64  `mapstructure:"admin_fee_percent"`
	CashboxSnapshotCron  string `mapstructure:"cashbox_snapshot_cron"`
}

type Config struct {
	Server    ServerConfig   `mapstructure:",squash"`
	Database  DatabaseConfig `mapstructure:",squash"`
	OSS       OSSConfig      `mapstructure:",squash"`
	Finance   FinanceConfig  `mapstructure:",squash"`
	JWTSecret string         `mapstructure:"jwt_secret"`
}

var (
	JWTSecret string
	App       *Config
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ Tidak menemukan .env file, menggunakan ENV dari sistem")
		} else {
			log.Println("✅ .env file berhasil dimuat!")
		}
	} else {
		log.Println("🚀 Running in Railway, menggunakan ENV dari sistem")
	}
}

var defaults = map[string]any{
	"port":                    "3000",
	"app_mode":                "release",
	"app_timezone":            "Asia/Jakarta",
	"cors_origins":            "http://localhost:5173",
	"db_port":                 "5432",
	"db_sslmode":              "require",
	"attendance_fee_per_head": 5000,
	"admin_fee_percent":       ledger.DefaultAdminFeePercent,
	"cashbox_snapshot_cron":   "55 23 * * *",
}

// Load membaca .env lalu ENV sistem ke dalam Config bertipe.
func Load() (*Config, error) {
	LoadEnv()

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	// viper.Unmarshal hanya melihat key yang dikenal → bind satu per satu
	for _, k := range knownKeys() {
		if err := v.BindEnv(k, strings.ToUpper(k)); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", k, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}

	App = &c
	JWTSecret = c.JWTSecret
	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET belum diset!")
	} else {
		log.Println("✅ JWT_SECRET berhasil dimuat.")
	}
	return &c, nil
}

func knownKeys() []string {
	return []string{
		"port", "app_mode", "app_timezone", "cors_origins",
		"db_user", "db_password", "db_host", "db_port", "db_name", "db_sslmode",
		"jwt_secret",
		"ali_oss_endpoint", "ali_oss_access_key", "ali_oss_secret_key",
		"ali_oss_security_token", "ali_oss_bucket", "ali_oss_public_base", "ali_oss_prefix",
		"attendance_fee_per_head", "admin_fee_percent", "cashbox_snapshot_cron",
	}
}

func (c *Config) validate() error {
	if c.Finance.AttendanceFeePerHead < 0 {
		return fmt.Errorf("ATTENDANCE_FEE_PER_HEAD must be >= 0")
	}
	if c.Finance.AdminFeePercent < 0 || c.Finance.AdminFeePercent > 100 {
		return fmt.Errorf("ADMIN_FEE_PERCENT must be within 0..100")
	}
	if _, err := time.LoadLocation(c.Server.Timezone); err != nil {
		return fmt.Errorf("APP_TIMEZONE: %w", err)
	}
	return nil
}

// Location zona waktu sekolah; fallback UTC.
func (c *Config) Location() *time.Location {
	if loc, err := time.LoadLocation(c.Server.Timezone); err == nil {
		return loc
	}
	return time.UTC
}

// DSN postgres URL; user/password/db name di-escape (password boleh berisi @ / :).
func (c *Config) DSN() string {
	q := url.Values{}
	q.Set("sslmode", c.Database.SSLMode)
	q.Set("application_name", "paudku")
	q.Set("options", "-c statement_timeout=3000")

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     net.JoinHostPort(c.Database.Host, c.Database.Port),
		Path:     "/" + c.Database.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}
