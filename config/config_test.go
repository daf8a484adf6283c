package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"
)

func TestDefaults(t *testing.T) {
	is := is.New(t)
	c := DefaultConfig()
	is.Equal(c.GetString(ConfigStrategy), "heuristic")
	is.Equal(c.GetString(ConfigPatterns), "standard,pairs")
	is.Equal(c.GetInt(ConfigDraws), 6)
	is.True(c.GetInt(ConfigThreads) >= 1)
	is.True(!c.GetBool(ConfigDebug))
}

func TestLoadFlags(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	rest, err := c.Load([]string{"--strategy", "patternmatch", "--draws=3", "shanten", "123m"})
	is.NoErr(err)
	is.Equal(rest, []string{"shanten", "123m"})
	is.Equal(c.GetString(ConfigStrategy), "patternmatch")
	is.Equal(c.GetInt(ConfigDraws), 3)
	is.Equal(c.GetInt(ConfigIterations), 2000)
}

func TestLoadEnv(t *testing.T) {
	is := is.New(t)
	t.Setenv("TENPAI_CACHE_MEMORY_FRACTION", "0.1")
	t.Setenv("TENPAI_DEBUG", "true")
	c := &Config{}
	_, err := c.Load(nil)
	is.NoErr(err)
	is.Equal(c.GetFloat64(ConfigCacheMemoryFraction), 0.1)
	is.True(c.GetBool(ConfigDebug))
}

func TestLoadFile(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "tenpai.yaml")
	is.NoErr(os.WriteFile(path, []byte("iterations: 50\npatterns: pairs\n"), 0o644))
	c := &Config{}
	_, err := c.Load([]string{"--config-file", path, "--iterations", "70"})
	is.NoErr(err)
	// Flags win over the file.
	is.Equal(c.GetInt(ConfigIterations), 70)
	is.Equal(c.GetString(ConfigPatterns), "pairs")

	_, err = c.Load([]string{"--config-file", filepath.Join(t.TempDir(), "missing.yaml")})
	is.True(err != nil)
}

func TestBadFlag(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	_, err := c.Load([]string{"--no-such-flag"})
	is.True(err != nil)
}

func TestSetKey(t *testing.T) {
	is := is.New(t)
	c := DefaultConfig()
	is.NoErr(c.SetKey(ConfigThreads, "3"))
	is.Equal(c.GetInt(ConfigThreads), 3)
	is.NoErr(c.SetKey(ConfigDebug, "on"))
	is.True(c.GetBool(ConfigDebug))
	is.True(c.SetKey(ConfigThreads, "-1") != nil)
	is.True(c.SetKey(ConfigCacheMemoryFraction, "0.9") != nil)
	is.True(c.SetKey("lexicon", "NWL23") != nil)
}
