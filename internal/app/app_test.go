package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riskscreen/internal/platform/config"
	"riskscreen/internal/platform/logger"
	"riskscreen/internal/screening/metrics"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("SEC_USER_AGENT", "compliance@example.com")
	dir := t.TempDir()
	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
		return path
	}
	t.Setenv("OFAC_LIST_PATH", write("ofac.csv", "ent_num,SDN_Name\n1,ACME CORP\n"))
	t.Setenv("EU_LIST_PATH", write("eu.csv", "Entity_LogicalId,NameAlias_WholeName\n1,Zeta Holdings\n"))
	t.Setenv("ICIJ_LIST_PATH", write("icij.csv", "name,sourceID\nShell Co,Panama Papers\n"))

	cfg, err := config.FromEnv()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestBuildService(t *testing.T) {
	cfg := testConfig(t)
	m := metrics.NewWithRegistry(prometheus.NewRegistry())

	svc, err := BuildService(cfg, nil, m, logger.Discard())
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestBuildServiceFailsOnBadInputs(t *testing.T) {
	t.Run("missing sanctions list", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Sanctions.EUPath = filepath.Join(t.TempDir(), "missing.csv")
		_, err := BuildService(cfg, nil, nil, logger.Discard())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "EU")
	})

	t.Run("invalid weight table", func(t *testing.T) {
		cfg := testConfig(t)
		path := filepath.Join(t.TempDir(), "weights.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"sanctions": -1}`), 0o600))
		cfg.Pipeline.WeightsPath = path
		_, err := BuildService(cfg, nil, nil, logger.Discard())
		require.Error(t, err)
	})
}
