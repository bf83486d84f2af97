package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timeouts, rule rates, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	CORS    CORSConfig
	Log     LogConfig
	JWT     JWTConfig
	Booking BookingConfig
	Pricing PricingConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
}

// JWT validates tokens issued by the external identity service; this core
// never issues production tokens itself.
type JWTConfig struct {
	Secret string `envconfig:"JWT_SECRET" required:"true"`
}

type BookingConfig struct {
	// OfferWindow is how long a vendor counter-offer stays acceptable.
	OfferWindow   time.Duration `envconfig:"BOOKING_OFFER_WINDOW" default:"48h"`
	SweepSchedule string        `envconfig:"BOOKING_SWEEP_SCHEDULE" default:"@every 1m"`
}

// Pricing carries the configurable rule set. Rule thresholds come from product
// configuration; only the application order and arithmetic are fixed in code.
// A zero percentage disables the rule.
type PricingConfig struct {
	PlatformFeeRate         float64 `envconfig:"PRICING_PLATFORM_FEE_RATE" default:"0.05"`
	WeekendSurchargeRate    float64 `envconfig:"PRICING_WEEKEND_SURCHARGE_RATE" default:"0"`
	AfterHoursSurchargeRate float64 `envconfig:"PRICING_AFTER_HOURS_SURCHARGE_RATE" default:"0"`
	AfterHoursStart         int     `envconfig:"PRICING_AFTER_HOURS_START" default:"20"`
	AfterHoursEnd           int     `envconfig:"PRICING_AFTER_HOURS_END" default:"8"`
	MultiDayDiscountRate    float64 `envconfig:"PRICING_MULTI_DAY_DISCOUNT_RATE" default:"0"`
	MultiDayThresholdDays   int     `envconfig:"PRICING_MULTI_DAY_THRESHOLD_DAYS" default:"3"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		JWT: JWTConfig{
			Secret: "test-secret",
		},
		Booking: BookingConfig{
			OfferWindow:   48 * time.Hour,
			SweepSchedule: "@every 1m",
		},
		Pricing: PricingConfig{
			PlatformFeeRate:       0.05,
			AfterHoursStart:       20,
			AfterHoursEnd:         8,
			MultiDayThresholdDays: 3,
		},
	}
}
