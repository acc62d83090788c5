package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/etnz/taxlots"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	config, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	s, err := config.StrategyValue()
	require.NoError(t, err)
	assert.Equal(t, taxlots.HIFO, s)

	m, err := config.MaterialityValue()
	require.NoError(t, err)
	assert.Equal(t, "0.01", m.Decimal().String())
	assert.Equal(t, "USD", m.Currency())

	assert.Equal(t, "BTC", config.AliasMap()["XBT"])
	assert.Equal(t, logrus.InfoLevel, config.Level())

	pc, err := config.PriceConfig()
	require.NoError(t, err)
	assert.Equal(t, 3, pc.Attempts)
	assert.Equal(t, time.Second, pc.Backoff)
	assert.Equal(t, "usd", pc.Currency)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeFile(t, "tlx.toml", `
strategy = "lowifo"
materiality = "1"
log_level = "debug"

[aliases]
WETH = "ETH"

[price]
attempts = 5
backoff = "250ms"
cache_ttl = "1h"

[price.coins]
WETH = "weth"
`)
	t.Setenv("TAXLOTS_LOG_LEVEL", "warn")
	t.Setenv("COINGECKO_API_KEY", "from-env")

	config, err := Load(path)
	require.NoError(t, err)

	s, err := config.StrategyValue()
	require.NoError(t, err)
	assert.Equal(t, taxlots.LOWIFO, s)
	assert.Equal(t, logrus.WarnLevel, config.Level(), "environment overrides the file")
	assert.Equal(t, "ETH", config.AliasMap()["WETH"])
	assert.Equal(t, "BTC", config.AliasMap()["XBT"], "file aliases are merged with the defaults")

	pc, err := config.PriceConfig()
	require.NoError(t, err)
	assert.Equal(t, 5, pc.Attempts)
	assert.Equal(t, 250*time.Millisecond, pc.Backoff)
	assert.Equal(t, time.Hour, pc.CacheTTL)
	assert.Equal(t, 30*time.Second, pc.Timeout)
	assert.Equal(t, "from-env", pc.APIKey)
	assert.Equal(t, "weth", pc.Coins["WETH"])
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"strategy":    `strategy = "fifo"`,
		"materiality": `materiality = "a cent"`,
		"negative":    `materiality = "-1"`,
		"log level":   `log_level = "loud"`,
		"duration":    "[price]\nbackoff = \"soon\"",
		"syntax":      `strategy = `,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, "tlx.toml", content))
			assert.Error(t, err)
		})
	}
}
