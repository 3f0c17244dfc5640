package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJSON = `{
	"server_address": ":3000",
	"base_url": "http://json-config.com",
	"log_level": "warning",
	"short_key_length": 8,
	"trusted_subnet": "192.168.1.0/24"
}`

func writeTempJSON(t *testing.T, content string) string {
	t.Helper()
	file, err := os.CreateTemp("", "config*.json")
	require.NoError(t, err)
	_, err = file.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, file.Close())
	t.Cleanup(func() {
		err := os.Remove(file.Name())
		require.NoError(t, err)
	})
	return file.Name()
}

func TestApplyDefaults(t *testing.T) {
	values := Config{}

	applyDefaults(&values, defaultConfig)

	assert.Equal(t, ":8080", values.RunAddr)
	assert.Equal(t, "http://localhost:8080", values.ShortURLBase)
	assert.Equal(t, "info", values.LogLevel)
	assert.Equal(t, 6, values.ShortKeyLength)
	assert.Equal(t, "tinyapp_auth", values.AuthCookieName)
	assert.Empty(t, values.TrustedSubnet)
}

func TestConfigDefaultsOnly(t *testing.T) {
	cfg, err := New(WithDisableFlagsParsing(true))
	require.NoError(t, err)

	assert.Equal(t, defaultConfig, *cfg)
}

func TestConfigPriorityJSONOnly(t *testing.T) {
	jsonPath := writeTempJSON(t, testJSON)
	t.Setenv("CONFIG", jsonPath)

	cfg, err := New(WithDisableFlagsParsing(true))
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.RunAddr)
	assert.Equal(t, "http://json-config.com", cfg.ShortURLBase)
	assert.Equal(t, "warning", cfg.LogLevel)
	assert.Equal(t, 8, cfg.ShortKeyLength)
	assert.Equal(t, "192.168.1.0/24", cfg.TrustedSubnet)
	assert.Equal(t, defaultConfig.AuthCookieName, cfg.AuthCookieName) // untouched by JSON
}

func TestConfigPriorityJSONPlusEnv(t *testing.T) {
	jsonPath := writeTempJSON(t, testJSON)
	t.Setenv("CONFIG", jsonPath)
	t.Setenv("SERVER_ADDRESS", ":4000")
	t.Setenv("BASE_URL", "http://env.com")

	cfg, err := New(WithDisableFlagsParsing(true))
	require.NoError(t, err)

	assert.Equal(t, ":4000", cfg.RunAddr) // env overrides json
	assert.Equal(t, "http://env.com", cfg.ShortURLBase)
	assert.Equal(t, "warning", cfg.LogLevel) // from JSON
}

func TestConfigPriorityAllSources(t *testing.T) {
	jsonPath := writeTempJSON(t, testJSON)
	t.Setenv("CONFIG", jsonPath)
	t.Setenv("SERVER_ADDRESS", ":4000")
	t.Setenv("BASE_URL", "http://env.com")

	os.Args = []string{
		"testbin",
		"-a", ":6000",
		"-b", "http://cli.com",
	}

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, ":6000", cfg.RunAddr) // CLI > ENV > JSON
	assert.Equal(t, "http://cli.com", cfg.ShortURLBase)
	assert.Equal(t, "warning", cfg.LogLevel) // from JSON
}

func TestConfigEnvOnly(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":7000")
	t.Setenv("BASE_URL", "http://envonly.com")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SHORT_KEY_LENGTH", "10")

	cfg, err := New(WithDisableFlagsParsing(true))
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.RunAddr)
	assert.Equal(t, "http://envonly.com", cfg.ShortURLBase)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 10, cfg.ShortKeyLength)
}

func TestConfigRejectsBadValues(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown log level", "LOG_LEVEL", "verbose"},
		{"negative key length", "SHORT_KEY_LENGTH", "-5"},
		{"malformed trusted subnet", "TRUSTED_SUBNET", "not-a-subnet"},
		{"secret is not base64", "AUTH_COOKIE_SIGNING_SECRET_KEY", "!!!not-base64!!!"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Setenv(testCase.key, testCase.value)

			_, err := New(WithDisableFlagsParsing(true))
			assert.Error(t, err)
		})
	}
}
