package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Auth      AuthConfig      `mapstructure:"auth"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Database  DatabaseConfig  `mapstructure:"database"`
	NATS      NATSConfig      `mapstructure:"nats"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Honeypot  HoneypotConfig  `mapstructure:"honeypot"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	HTTPPort        int           `mapstructure:"http_port"`
	GRPCPort        int           `mapstructure:"grpc_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type AuthConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	TimeFormat string `mapstructure:"time_format"`
}

type RedisConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

type NATSConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	URL           string `mapstructure:"url"`
	SubjectPrefix string `mapstructure:"subject_prefix"`
}

type LLMConfig struct {
	Provider    string        `mapstructure:"provider"` // groq, openai, claude
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// HoneypotConfig holds the immutable engagement tables loaded once at startup
type HoneypotConfig struct {
	Engagement EngagementConfig `mapstructure:"engagement"`
	Scoring    ScoringConfig    `mapstructure:"scoring"`
	Keywords   KeywordsConfig   `mapstructure:"keywords"`
	Personas   PersonasConfig   `mapstructure:"personas"`
	// ScammerScript is the canned counterpart reply for each turn,
	// clamped to the last entry once exhausted.
	ScammerScript []string `mapstructure:"scammer_script"`
}

// Stop policies for the engagement loop.
const (
	StopPolicyImmediate = "immediate" // stop as soon as any indicator is found
	StopPolicyMinTurns  = "min_turns" // indicators only end the run after min_turns
)

// Responder strategies for the agent side of the conversation.
const (
	ResponderScripted = "scripted"
	ResponderLLM      = "llm"
)

type EngagementConfig struct {
	MaxTurns           int    `mapstructure:"max_turns"`
	StopPolicy         string `mapstructure:"stop_policy"`
	MinTurns           int    `mapstructure:"min_turns"`
	DetectionThreshold int    `mapstructure:"detection_threshold"`
	Responder          string `mapstructure:"responder"`
}

// Scoring modes. Both formulas from the observed variants are kept;
// indicator is the default used for the final report.
const (
	ScoringModeIndicator = "indicator"
	ScoringModeKeyword   = "keyword"
)

type ScoringConfig struct {
	Mode      string           `mapstructure:"mode"`
	Indicator IndicatorWeights `mapstructure:"indicator"`
	Keyword   KeywordWeights   `mapstructure:"keyword"`
}

type IndicatorWeights struct {
	PaymentID   int `mapstructure:"payment_id"`
	Link        int `mapstructure:"link"`
	BankAccount int `mapstructure:"bank_account"`
}

type KeywordWeights struct {
	Urgency    int `mapstructure:"urgency"`
	Credential int `mapstructure:"credential"`
	Link       int `mapstructure:"link"`
	UPI        int `mapstructure:"upi"`
}

// KeywordsConfig holds the classifier and detection keyword tables.
// Category order is significant: it is the tie-break order for the
// classifier.
type KeywordsConfig struct {
	Categories []CategoryKeywords `mapstructure:"categories"`
	Urgency    []string           `mapstructure:"urgency"`
	Credential []string           `mapstructure:"credential"`
}

type CategoryKeywords struct {
	Name     string   `mapstructure:"name"`
	Triggers []string `mapstructure:"triggers"`
}

type PersonasConfig struct {
	// Definitions maps persona id to its system instruction.
	Definitions map[string]string `mapstructure:"definitions"`
	// Rules is the selection cascade; first match wins.
	Rules []PersonaRule `mapstructure:"rules"`
	// Default is the fallback persona when no rule matches.
	Default string `mapstructure:"default"`
}

type PersonaRule struct {
	Contains string `mapstructure:"contains"`
	Persona  string `mapstructure:"persona"`
}

// Load reads configuration from file and environment variables.
// A missing config file is not an error; defaults apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/honeypot-ai")
	}

	v.SetEnvPrefix("HONEYPOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind nested env vars explicitly (viper doesn't auto-bind nested struct fields)
	v.BindEnv("auth.api_key", "HONEYPOT_AUTH_API_KEY")
	v.BindEnv("llm.provider", "HONEYPOT_LLM_PROVIDER")
	v.BindEnv("llm.api_key", "HONEYPOT_LLM_API_KEY")
	v.BindEnv("llm.model", "HONEYPOT_LLM_MODEL")
	v.BindEnv("redis.enabled", "HONEYPOT_REDIS_ENABLED")
	v.BindEnv("redis.host", "HONEYPOT_REDIS_HOST")
	v.BindEnv("redis.port", "HONEYPOT_REDIS_PORT")
	v.BindEnv("redis.password", "HONEYPOT_REDIS_PASSWORD")
	v.BindEnv("database.enabled", "HONEYPOT_DATABASE_ENABLED")
	v.BindEnv("database.host", "HONEYPOT_DATABASE_HOST")
	v.BindEnv("database.port", "HONEYPOT_DATABASE_PORT")
	v.BindEnv("database.user", "HONEYPOT_DATABASE_USER")
	v.BindEnv("database.password", "HONEYPOT_DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "HONEYPOT_DATABASE_DBNAME")
	v.BindEnv("nats.enabled", "HONEYPOT_NATS_ENABLED")
	v.BindEnv("nats.url", "HONEYPOT_NATS_URL")
	v.BindEnv("app.environment", "HONEYPOT_APP_ENVIRONMENT")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Honeypot.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadDefault loads configuration with default search paths
func LoadDefault() (*Config, error) {
	return Load("")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "honeypot-ai")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.version", "1.0.0")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.grpc_port", 9090)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 2*time.Minute)
	v.SetDefault("server.idle_timeout", time.Minute)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("auth.api_key", "hackathon123")

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Accept", "Content-Type", "X-API-Key"})
	v.SetDefault("cors.max_age", 300)

	v.SetDefault("ratelimit.enabled", false)
	v.SetDefault("ratelimit.requests_per_minute", 60)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.time_format", time.RFC3339)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.key_prefix", "honeypot:")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "honeypot")
	v.SetDefault("database.dbname", "honeypot")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)

	v.SetDefault("nats.enabled", false)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.subject_prefix", "honeypot.engagements")

	v.SetDefault("llm.provider", "groq")
	v.SetDefault("llm.model", "llama-3.1-8b-instant")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.max_tokens", 512)
	v.SetDefault("llm.timeout", 30*time.Second)

	v.SetDefault("honeypot.engagement.max_turns", 5)
	v.SetDefault("honeypot.engagement.stop_policy", StopPolicyImmediate)
	v.SetDefault("honeypot.engagement.min_turns", 3)
	v.SetDefault("honeypot.engagement.detection_threshold", 20)
	v.SetDefault("honeypot.engagement.responder", ResponderScripted)

	v.SetDefault("honeypot.scoring.mode", ScoringModeIndicator)
	v.SetDefault("honeypot.scoring.indicator.payment_id", 40)
	v.SetDefault("honeypot.scoring.indicator.link", 40)
	v.SetDefault("honeypot.scoring.indicator.bank_account", 50)
	v.SetDefault("honeypot.scoring.keyword.urgency", 15)
	v.SetDefault("honeypot.scoring.keyword.credential", 20)
	v.SetDefault("honeypot.scoring.keyword.link", 15)
	v.SetDefault("honeypot.scoring.keyword.upi", 10)
}

// applyDefaults fills the engagement tables that viper defaults cannot
// express (ordered lists of structs and maps).
func (h *HoneypotConfig) applyDefaults() {
	if len(h.Keywords.Categories) == 0 {
		h.Keywords.Categories = DefaultCategories()
	}
	if len(h.Keywords.Urgency) == 0 {
		h.Keywords.Urgency = []string{
			"urgent", "immediately", "blocked", "suspend", "expire",
			"act now", "last warning", "final notice",
		}
	}
	if len(h.Keywords.Credential) == 0 {
		h.Keywords.Credential = []string{"otp", "pin", "password", "cvv"}
	}
	if len(h.Personas.Definitions) == 0 {
		h.Personas.Definitions = DefaultPersonas()
	}
	if len(h.Personas.Rules) == 0 {
		h.Personas.Rules = []PersonaRule{
			{Contains: "bank", Persona: "senior_citizen"},
			{Contains: "upi", Persona: "shop_owner"},
		}
	}
	if h.Personas.Default == "" {
		h.Personas.Default = "student"
	}
	if len(h.ScammerScript) == 0 {
		h.ScammerScript = DefaultScammerScript()
	}
}

// DefaultCategories returns the built-in classifier table. Order matters:
// it is the enumeration order used to break classification ties.
func DefaultCategories() []CategoryKeywords {
	return []CategoryKeywords{
		{
			Name: "UPI Fraud",
			Triggers: []string{
				"upi", "paytm", "phonepe", "gpay", "cashback", "payment failed",
			},
		},
		{
			Name: "Bank Phishing",
			Triggers: []string{
				"bank", "account", "blocked", "suspend", "debit card", "net banking",
			},
		},
		{
			Name: "KYC Scam",
			Triggers: []string{
				"kyc", "verify", "verification", "aadhaar", "pan card",
			},
		},
		{
			Name: "Lottery Scam",
			Triggers: []string{
				"lottery", "winner", "prize", "lucky draw", "congratulations",
			},
		},
	}
}

// DefaultPersonas returns the built-in role-play personas.
func DefaultPersonas() map[string]string {
	return map[string]string{
		"senior_citizen": "You are Savitri, a 68-year-old retired school teacher. " +
			"You are polite, a little confused by technology, and slow to follow instructions. " +
			"You never share real personal information, but you keep the other person talking " +
			"and ask them to repeat payment details, account numbers and links.",
		"shop_owner": "You are Ramesh, a busy kirana shop owner who uses UPI all day. " +
			"You are practical and impatient, always in the middle of serving customers. " +
			"You never share real credentials, but you ask the other person to send their " +
			"UPI ID or link again because you keep mistyping it.",
		"student": "You are Priya, a college student who is curious but short of money. " +
			"You sound eager and naive. You never share real credentials, but you ask " +
			"follow-up questions about exactly where to pay and which link to open.",
	}
}

// DefaultScammerScript returns the canned counterpart replies used by the
// scripted simulator, indexed by turn.
func DefaultScammerScript() []string {
	return []string{
		"Sir this is from your bank security team. Your account will be suspended today, you must act now.",
		"Do not worry, it is a small verification only. Share the OTP you received and keep this call confidential.",
		"If you cannot find the OTP, just transfer the reactivation fee to scammer123@upi right now.",
		"You can also complete the verification at https://secure-verify-bank.com/kyc before your account is blocked.",
		"Final reminder: deposit to account number 123456789012 or the account stays frozen permanently.",
	}
}

// Validate checks the startup invariants. Failures here are fatal: a
// missing persona or an empty keyword table cannot be recovered per-request.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.APIKey) == "" {
		return fmt.Errorf("config: auth.api_key must not be empty")
	}

	h := c.Honeypot
	if len(h.Keywords.Categories) == 0 {
		return fmt.Errorf("config: honeypot.keywords.categories must not be empty")
	}
	for _, cat := range h.Keywords.Categories {
		if cat.Name == "" {
			return fmt.Errorf("config: keyword category with empty name")
		}
		if len(cat.Triggers) == 0 {
			return fmt.Errorf("config: keyword category %q has no triggers", cat.Name)
		}
	}

	if len(h.Personas.Definitions) == 0 {
		return fmt.Errorf("config: honeypot.personas.definitions must not be empty")
	}
	for id, instruction := range h.Personas.Definitions {
		if strings.TrimSpace(instruction) == "" {
			return fmt.Errorf("config: persona %q has an empty instruction", id)
		}
	}
	if _, ok := h.Personas.Definitions[h.Personas.Default]; !ok {
		return fmt.Errorf("config: default persona %q is not defined", h.Personas.Default)
	}
	for _, rule := range h.Personas.Rules {
		if _, ok := h.Personas.Definitions[rule.Persona]; !ok {
			return fmt.Errorf("config: persona rule %q references undefined persona %q", rule.Contains, rule.Persona)
		}
	}

	if len(h.ScammerScript) == 0 {
		return fmt.Errorf("config: honeypot.scammer_script must not be empty")
	}

	if h.Engagement.MaxTurns < 1 {
		return fmt.Errorf("config: honeypot.engagement.max_turns must be >= 1")
	}
	switch h.Engagement.StopPolicy {
	case StopPolicyImmediate, StopPolicyMinTurns:
	default:
		return fmt.Errorf("config: unknown stop policy %q", h.Engagement.StopPolicy)
	}
	switch h.Scoring.Mode {
	case ScoringModeIndicator, ScoringModeKeyword:
	default:
		return fmt.Errorf("config: unknown scoring mode %q", h.Scoring.Mode)
	}
	switch h.Engagement.Responder {
	case ResponderScripted, ResponderLLM:
	default:
		return fmt.Errorf("config: unknown responder strategy %q", h.Engagement.Responder)
	}

	return nil
}
