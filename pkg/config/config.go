// Package config holds the engine's immutable configuration record.
//
// The original shell implementation kept its tunables (btrfs_path,
// BOCKER_* options) as top-level global variables read implicitly by every
// function. Here they are collected into a single Config value, built once
// at process start and threaded explicitly into every engine constructor —
// no package-level state.
package config

import "path/filepath"

// Config is the engine's configuration record. It is built once at process
// start (Defaults plus flag and environment overrides) and never mutated
// afterward.
type Config struct {
	// Root is the path under which image and container subvolumes live.
	Root string

	// CgroupParent is the engine-owned cgroup v2 directory all per-
	// container cgroups are created under.
	CgroupParent string

	// BridgeName is the host bridge interface container veths are
	// enslaved to.
	BridgeName string

	// BridgeIP is the bridge's address inside the container subnet,
	// used as the containers' default route.
	BridgeIP string

	// Nameserver is written into every container's /etc/resolv.conf.
	Nameserver string

	// CPUShare is the default legacy CPU share value (spec default 512).
	CPUShare int

	// MemLimitMB is the default memory ceiling in megabytes (spec
	// default 512).
	MemLimitMB int

	// Debug raises the logger to debug level when true.
	Debug bool
}

// Defaults returns the engine's built-in defaults, matching spec.md §6.
func Defaults() Config {
	return Config{
		Root:         "/var/lib/bocker",
		CgroupParent: "bocker",
		BridgeName:   "bridge0",
		BridgeIP:     "10.0.0.1",
		Nameserver:   "8.8.8.8",
		CPUShare:     512,
		MemLimitMB:   512,
	}
}

// StorePath returns the path to the engine's sqlite catalogue database
// directory, the ".store" directory inside the snapshot root.
func (c Config) StorePath() string {
	return filepath.Join(c.Root, ".store")
}

// CgroupRoot returns the absolute path of the engine's parent cgroup
// directory under the cgroup v2 unified hierarchy.
func (c Config) CgroupRoot() string {
	return filepath.Join("/sys/fs/cgroup", c.CgroupParent)
}
