package config

import (
	"os"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr        string
	PostgresDSN string
	Redis       RedisConfig
	Notify      Notify
}

// RedisConfig captures connection settings for the dispatch queue.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Notify carries the shared matching configuration: template ids and the
// base URL used to build case links. Passed explicitly into the matching
// engine so matching stays a pure function of (event, subscriptions, config).
type Notify struct {
	HearingTemplateID  string
	DocumentTemplateID string
	CaseURLBase        string
	CaseAtAGlancePath  string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("CASEWATCH_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	caseURLBase := os.Getenv("CASE_URL_BASE")
	if caseURLBase == "" {
		caseURLBase = "https://courts.example.gov.uk"
	}
	caseGlance := os.Getenv("CASE_AT_A_GLANCE_PATH")
	if caseGlance == "" {
		caseGlance = "/case-at-a-glance"
	}

	return Server{
		Addr:        addr,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Notify: Notify{
			HearingTemplateID:  envOr("HEARING_TEMPLATE_ID", "hearing-resulted-v1"),
			DocumentTemplateID: envOr("DOCUMENT_TEMPLATE_ID", "nowedt-document-v1"),
			CaseURLBase:        caseURLBase,
			CaseAtAGlancePath:  caseGlance,
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
