package config

import (
	"os"
	"testing"
)

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	original := make(map[string]string, len(keys))
	for _, k := range keys {
		original[k] = os.Getenv(k)
		os.Unsetenv(k)
	}
	t.Cleanup(func() {
		for k, v := range original {
			if v != "" {
				os.Setenv(k, v)
			} else {
				os.Unsetenv(k)
			}
		}
	})
}

func TestConfigDefaultValues(t *testing.T) {
	clearEnv(t, "HOST", "PORT", "LOG_LEVEL", "MIN_SCORE", "MAX_CANDIDATES",
		"KG_DFID_CACHE_TTL_SECONDS", "NE_ANON_CACHE_TTL_SECONDS", "OPENAI_TARGET_LANG")

	cfg, err := load()
	if err != nil {
		t.Fatalf("load() error: %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Host default = %q, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Port default = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.LogLevel != "info" {
		t.Errorf("LogLevel default = %q, want info", cfg.Server.LogLevel)
	}
	if cfg.Matching.MinScore != 55 {
		t.Errorf("MinScore default = %v, want 55", cfg.Matching.MinScore)
	}
	if cfg.Matching.MaxCandidates != 8 {
		t.Errorf("MaxCandidates default = %d, want 8", cfg.Matching.MaxCandidates)
	}
	if cfg.Providers.KGDfidCacheTTLSeconds != 1800 {
		t.Errorf("KGDfidCacheTTLSeconds default = %d, want 1800", cfg.Providers.KGDfidCacheTTLSeconds)
	}
	if cfg.Providers.NEAnonCacheTTLSeconds != 864000 {
		t.Errorf("NEAnonCacheTTLSeconds default = %d, want 864000", cfg.Providers.NEAnonCacheTTLSeconds)
	}
	if cfg.Translation.TranslationCacheTTLSeconds != 14400 {
		t.Errorf("TranslationCacheTTLSeconds default = %d, want 14400", cfg.Translation.TranslationCacheTTLSeconds)
	}
}

func TestConfigEnvironmentOverrides(t *testing.T) {
	clearEnv(t, "PORT", "MIN_SCORE", "MAX_CANDIDATES", "API_KEY", "OPENAI_MODEL")
	os.Setenv("PORT", "9090")
	os.Setenv("MIN_SCORE", "70")
	os.Setenv("MAX_CANDIDATES", "3")
	os.Setenv("API_KEY", "secret")
	os.Setenv("OPENAI_MODEL", "gpt-4o-mini")

	cfg, err := load()
	if err != nil {
		t.Fatalf("load() error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Port override = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Matching.MinScore != 70 {
		t.Errorf("MinScore override = %v, want 70", cfg.Matching.MinScore)
	}
	if cfg.Matching.MaxCandidates != 3 {
		t.Errorf("MaxCandidates override = %d, want 3", cfg.Matching.MaxCandidates)
	}
	if cfg.Server.APIKey != "secret" {
		t.Errorf("APIKey override = %q, want secret", cfg.Server.APIKey)
	}
	if cfg.Translation.OpenAIModel != "gpt-4o-mini" {
		t.Errorf("OpenAIModel override = %q, want gpt-4o-mini", cfg.Translation.OpenAIModel)
	}
}

func TestGet(t *testing.T) {
	cfg := Get()
	if cfg.Server.Port == 0 {
		t.Error("Get() returned a zero-value config")
	}
}

func TestMustLoad(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("mustLoad() panicked: %v", r)
		}
	}()
	cfg := mustLoad()
	if cfg.Server.Port <= 0 {
		t.Error("mustLoad() returned an invalid port")
	}
}

func TestSplitAndTrim(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b ,, c ", []string{"a", "b", "c"}},
	}
	for _, c := range cases {
		got := SplitAndTrim(c.in)
		if len(got) != len(c.want) {
			t.Errorf("SplitAndTrim(%q) = %v, want %v", c.in, got, c.want)
			continue
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("SplitAndTrim(%q)[%d] = %q, want %q", c.in, i, got[i], c.want[i])
			}
		}
	}
}

func TestCORSOrigins(t *testing.T) {
	cfg := Config{}
	cfg.Server.CORSAllowedOrigins = "https://a.example,https://b.example"
	origins := cfg.CORSOrigins()
	if len(origins) != 2 || origins[0] != "https://a.example" || origins[1] != "https://b.example" {
		t.Errorf("CORSOrigins() = %v", origins)
	}
}
