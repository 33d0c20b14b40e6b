package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvGetters(t *testing.T) {
	t.Setenv("OPC_TEST_INT", "42")
	t.Setenv("OPC_TEST_BAD_INT", "forty")
	t.Setenv("OPC_TEST_BOOL", "true")
	t.Setenv("OPC_TEST_DURATION", "250ms")

	assert.Equal(t, 42, getEnvInt("OPC_TEST_INT", 1))
	assert.Equal(t, 7, getEnvInt("OPC_TEST_BAD_INT", 7))
	assert.Equal(t, 7, getEnvInt("OPC_TEST_UNSET", 7))
	assert.True(t, getEnvBool("OPC_TEST_BOOL", false))
	assert.Equal(t, 250*time.Millisecond, getEnvDuration("OPC_TEST_DURATION", time.Second))
	assert.Equal(t, "fallback", getEnvString("OPC_TEST_UNSET", "fallback"))
}

func TestLoadReadsOverrides(t *testing.T) {
	t.Setenv("OPC_MAX_TREE_DEPTH", "4")
	t.Setenv("OPC_MEDIA_URL_PREFIX", "/assets")
	t.Setenv("FRAGMENT_CACHE_TTL", "5m")
	t.Cleanup(Load)

	Load()

	assert.Equal(t, 4, MaxTreeDepth)
	assert.Equal(t, 256, MaxAreaItems)
	assert.Equal(t, "/assets", MediaURLPrefix)
	assert.Equal(t, 5*time.Minute, FragmentCacheTTL)
}
