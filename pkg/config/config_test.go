package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultsMatchesSpecDefaults(t *testing.T) {
	c := Defaults()

	assert.Equal(t, "/var/lib/bocker", c.Root)
	assert.Equal(t, "bocker", c.CgroupParent)
	assert.Equal(t, "bridge0", c.BridgeName)
	assert.Equal(t, "10.0.0.1", c.BridgeIP)
	assert.Equal(t, 512, c.CPUShare)
	assert.Equal(t, 512, c.MemLimitMB)
	assert.False(t, c.Debug)
}

func TestStorePathIsInsideRoot(t *testing.T) {
	c := Config{Root: "/srv/bocker"}
	assert.Equal(t, "/srv/bocker/.store", c.StorePath())
}

func TestCgroupRootJoinsUnifiedHierarchy(t *testing.T) {
	c := Config{CgroupParent: "bocker"}
	assert.Equal(t, "/sys/fs/cgroup/bocker", c.CgroupRoot())
}
