package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures process-wide settings. It is loaded once at startup and
// treated as read-only afterwards.
type Config struct {
	Server    Server
	Providers Providers
	Pipeline  Pipeline
	Redis     RedisConfig
	Sanctions SanctionsLists
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr string
}

// Providers holds credentials and endpoints of the external collaborators.
type Providers struct {
	OpenCorporatesAPIKey string
	NewsAPIKey           string
	GeminiAPIKey         string
	HFAPIToken           string
	SECUserAgent         string

	OpenCorporatesURL string
	SECBaseURL        string
	NewsAPIURL        string
	HFInferenceURL    string
	GeminiURL         string
	GeminiModel       string

	Timeout          time.Duration
	BreakerFailures  int
	BreakerCooldown  time.Duration
	MaxOutboundCalls int
}

// Pipeline bounds the fan-out and latency of a screening batch.
type Pipeline struct {
	TransactionConcurrency int
	EntityConcurrency      int
	MaxShareholders        int
	MaxArticles            int
	MaxShareholderArticles int
	MaxBatchSize           int
	SynthesisTimeout       time.Duration
	ComputeTimeout         time.Duration
	EntityCacheTTL         time.Duration
	HighRiskCountries      []string
	WeightsPath            string
}

// RedisConfig configures the optional shared entity cache tier.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// SanctionsLists points at the three static list files.
type SanctionsLists struct {
	OFACPath string
	EUPath   string
	ICIJPath string
}

// MaxShareholdersCap is the hard upper bound on resolved shareholders per entity.
const MaxShareholdersCap = 5

// LoadDotEnv loads a .env file from the working directory if one exists.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	p := &envParser{}
	cfg := Config{
		Server: Server{
			Addr: getEnv("SCREENING_ADDR", ":8080"),
		},
		Providers: Providers{
			OpenCorporatesAPIKey: os.Getenv("OPENCORPORATES_API_KEY"),
			NewsAPIKey:           os.Getenv("NEWS_API_KEY"),
			GeminiAPIKey:         os.Getenv("GEMINI_API_KEY"),
			HFAPIToken:           os.Getenv("HF_API_TOKEN"),
			SECUserAgent:         os.Getenv("SEC_USER_AGENT"),

			OpenCorporatesURL: getEnv("OPENCORPORATES_URL", "https://api.opencorporates.com"),
			SECBaseURL:        getEnv("SEC_BASE_URL", "https://www.sec.gov"),
			NewsAPIURL:        getEnv("NEWS_API_URL", "https://newsapi.org/v2"),
			HFInferenceURL:    getEnv("HF_INFERENCE_URL", "https://api-inference.huggingface.co"),
			GeminiURL:         getEnv("GEMINI_URL", "https://generativelanguage.googleapis.com"),
			GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.0-flash"),

			Timeout:          p.duration("PROVIDER_TIMEOUT", 10*time.Second),
			BreakerFailures:  p.int("PROVIDER_BREAKER_FAILURES", 5),
			BreakerCooldown:  p.duration("PROVIDER_BREAKER_COOLDOWN", 30*time.Second),
			MaxOutboundCalls: p.int("MAX_OUTBOUND_REQUESTS", 8),
		},
		Pipeline: Pipeline{
			TransactionConcurrency: p.int("TRANSACTION_CONCURRENCY", 4),
			EntityConcurrency:      p.int("ENTITY_CONCURRENCY", 4),
			MaxShareholders:        p.int("MAX_SHAREHOLDERS", MaxShareholdersCap),
			MaxArticles:            p.int("MAX_ARTICLES", 5),
			MaxShareholderArticles: p.int("MAX_SHAREHOLDER_ARTICLES", 1),
			MaxBatchSize:           p.int("MAX_BATCH_SIZE", 100),
			SynthesisTimeout:       p.duration("SYNTHESIS_TIMEOUT", 60*time.Second),
			ComputeTimeout:         p.duration("ENTITY_COMPUTE_TIMEOUT", 2*time.Minute),
			EntityCacheTTL:         p.duration("ENTITY_CACHE_TTL", 0),
			HighRiskCountries:      splitList(os.Getenv("HIGH_RISK_COUNTRIES")),
			WeightsPath:            os.Getenv("WEIGHTS_PATH"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     p.int("REDIS_POOL_SIZE", 10),
			MinIdleConns: p.int("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  p.duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  p.duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: p.duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Sanctions: SanctionsLists{
			OFACPath: getEnv("OFAC_LIST_PATH", "sanction_list/ofac_sanctions.csv"),
			EUPath:   getEnv("EU_LIST_PATH", "sanction_list/eu_sanctions.csv"),
			ICIJPath: getEnv("ICIJ_LIST_PATH", "sanction_list/icij_leaks.csv"),
		},
	}
	if err := errors.Join(p.errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the invariants main relies on.
func (c Config) Validate() error {
	var errs []error
	if c.Providers.GeminiAPIKey == "" {
		errs = append(errs, errors.New("GEMINI_API_KEY is required"))
	}
	if c.Providers.SECUserAgent == "" {
		errs = append(errs, errors.New("SEC_USER_AGENT is required"))
	}
	if c.Providers.Timeout <= 0 {
		errs = append(errs, errors.New("PROVIDER_TIMEOUT must be positive"))
	}
	if c.Providers.MaxOutboundCalls <= 0 {
		errs = append(errs, errors.New("MAX_OUTBOUND_REQUESTS must be positive"))
	}
	if c.Pipeline.TransactionConcurrency <= 0 || c.Pipeline.EntityConcurrency <= 0 {
		errs = append(errs, errors.New("concurrency limits must be positive"))
	}
	if c.Pipeline.MaxShareholders < 0 || c.Pipeline.MaxShareholders > MaxShareholdersCap {
		errs = append(errs, fmt.Errorf("MAX_SHAREHOLDERS must be between 0 and %d", MaxShareholdersCap))
	}
	if c.Pipeline.MaxArticles < 0 || c.Pipeline.MaxShareholderArticles < 0 {
		errs = append(errs, errors.New("article limits must not be negative"))
	}
	if c.Pipeline.MaxBatchSize <= 0 {
		errs = append(errs, errors.New("MAX_BATCH_SIZE must be positive"))
	}
	if c.Pipeline.SynthesisTimeout <= 0 {
		errs = append(errs, errors.New("SYNTHESIS_TIMEOUT must be positive"))
	}
	if c.Pipeline.EntityCacheTTL < 0 {
		errs = append(errs, errors.New("ENTITY_CACHE_TTL must not be negative"))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// envParser collects parse errors so one bad variable does not hide another.
type envParser struct {
	errs []error
}

func (p *envParser) int(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return v
}

func (p *envParser) duration(key string, fallback time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return v
}
