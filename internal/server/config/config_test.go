package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, ":8080", c.EndpointAddrHTTP)
	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, ":9090", c.MetricsAddr)
	assert.Equal(t, "secretKey", c.SecretKey)
	assert.Equal(t, 12*time.Hour, c.SessionValidityDuration)
	assert.Equal(t, "model.json", c.ModelPath)
	assert.Equal(t, "Asia/Jakarta", c.TimeZone)
	assert.Equal(t, "", c.LogFile)
	assert.False(t, c.SecureCookies)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTemp(t, "cfg.json", `{"endpoint_addr_http": ":7000", "model_path": "file.json", "secret_key": "from-file"}`)

	t.Setenv("SEVERITY_SECRET_KEY", "from-env")
	t.Setenv("SEVERITY_DATABASE_DSN", "memory://")
	t.Setenv("SEVERITY_MODEL_PATH", "env.json")
	os.Args = []string{"testbin", "-c", path, "-model", "flag.json"}

	c := LoadConfig()
	require.NotNil(t, c)

	want := defaults()
	want.EndpointAddrHTTP = ":7000" // file
	want.SecretKey = "from-file"    // file over env
	want.DatabaseDSN = "memory://"  // env
	want.ModelPath = "flag.json"    // flag over file and env

	assert.Empty(t, cmp.Diff(want, c))
}

func TestLoadConfig_NoOverrides(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	assert.Empty(t, cmp.Diff(defaults(), LoadConfig()))
}
