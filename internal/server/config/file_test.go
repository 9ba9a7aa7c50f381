package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func Test_parseFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", writeTemp(t, "cfg.json", `{
			"endpoint_addr_grpc": ":6001",
			"database_dsn": "memory://",
			"session_validity_duration": "90m",
			"time_zone": "Europe/Riga",
			"secure_cookies": true
		}`)}

		c := defaults()
		parseFile(c)

		assert.Equal(t, ":6001", c.EndpointAddrGRPC)
		assert.Equal(t, "memory://", c.DatabaseDSN)
		assert.Equal(t, 90*time.Minute, c.SessionValidityDuration)
		assert.Equal(t, "Europe/Riga", c.TimeZone)
		assert.True(t, c.SecureCookies)
		// untouched
		assert.Equal(t, ":8080", c.EndpointAddrHTTP)
	})

	t.Run("yaml", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", writeTemp(t, "cfg.yaml", ""+
			"endpoint_addr_http: \":9000\"\n"+
			"model_path: s3://models/model.json\n"+
			"session_validity_duration: 3600000000000\n"+
			"s3_root_user: minio\n")}

		c := defaults()
		parseFile(c)

		assert.Equal(t, ":9000", c.EndpointAddrHTTP)
		assert.Equal(t, "s3://models/model.json", c.ModelPath)
		assert.Equal(t, time.Hour, c.SessionValidityDuration)
		assert.Equal(t, "minio", c.S3RootUser)
		assert.False(t, c.SecureCookies)
	})

	t.Run("no config flag leaves config unchanged", func(t *testing.T) {
		os.Args = []string{"testbin"}
		c := defaults()
		parseFile(c)
		assert.Equal(t, defaults(), c)
	})

	t.Run("invalid json panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", writeTemp(t, "bad.json", "{ nope")}
		require.Panics(t, func() { parseFile(defaults()) })
	})

	t.Run("missing file panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(t.TempDir(), "none.json")}
		require.Panics(t, func() { parseFile(defaults()) })
	})
}
