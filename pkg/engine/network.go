package engine

import (
	"fmt"
	"net"
	"runtime"

	"github.com/vishvananda/netlink"
	"github.com/vishvananda/netns"
)

// Network fabric: veth pair, bridge enslavement, named netns, addressing.
// Grounded on docker-archive-libcontainer/network/dummy.go's create-link,
// move-into-ns, configure shape, reimplemented against vishvananda/netlink
// and vishvananda/netns instead of that file's vendored pre-netlink
// helpers.

// deriveIP returns the container's address in the bridge subnet. The
// original "strip zeros from NNN" transform collides (ps_100, ps_010 and
// ps_001 all map to .1, the bridge itself); per spec.md §9's Open Question
// this implementation adopts the injective NNN-1 mapping instead, which is
// unique across the whole [42,254] pool.
func deriveIP(nnn int) string {
	return fmt.Sprintf("10.0.0.%d", nnn-1)
}

// deriveMAC returns the container veth's hardware address: the fixed prefix
// 02:42:ac:11 followed by "0<d1>:<d2><d3>", where d1 d2 d3 are NNN's three
// decimal digits (spec.md §4.4), e.g. 100 -> 02:42:ac:11:01:00.
func deriveMAC(nnn int) net.HardwareAddr {
	d := fmt.Sprintf("%03d", nnn)
	mac := fmt.Sprintf("02:42:ac:11:0%c:%c%c", d[0], d[1], d[2])
	hw, err := net.ParseMAC(mac)
	if err != nil {
		// Guaranteed well-formed by construction; fall back to a
		// deterministic value rather than propagating an impossible error.
		hw, _ = net.ParseMAC("02:42:ac:11:00:00")
	}
	return hw
}

func vethNames(id string) (host, peer string) {
	return "veth0_" + id, "veth1_" + id
}

func netnsName(id string) string {
	return "netns_" + id
}

// setupNetwork builds the per-container network fabric (spec.md §4.4
// steps 1-5): a veth pair, the host end enslaved to the bridge, the
// container end moved into a fresh named netns and addressed.
func (e *Engine) setupNetwork(id string, nnn int) (err error) {
	hostName, peerName := vethNames(id)
	nsName := netnsName(id)

	bridge, err := netlink.LinkByName(e.Config.BridgeName)
	if err != nil {
		return preconditionErr(id, fmt.Errorf("bridge %q not found: %w", e.Config.BridgeName, err))
	}

	veth := &netlink.Veth{
		LinkAttrs: netlink.LinkAttrs{Name: hostName},
		PeerName:  peerName,
	}
	if err = netlink.LinkAdd(veth); err != nil {
		return kernelRefusalErr(id, fmt.Errorf("creating veth pair: %w", err))
	}

	hostLink, err := netlink.LinkByName(hostName)
	if err != nil {
		return kernelRefusalErr(id, err)
	}
	if err = netlink.LinkSetUp(hostLink); err != nil {
		return kernelRefusalErr(id, fmt.Errorf("bringing up %s: %w", hostName, err))
	}
	if err = netlink.LinkSetMaster(hostLink, bridge.(*netlink.Bridge)); err != nil {
		return kernelRefusalErr(id, fmt.Errorf("enslaving %s to %s: %w", hostName, e.Config.BridgeName, err))
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	origNs, err := netns.Get()
	if err != nil {
		return kernelRefusalErr(id, err)
	}
	defer origNs.Close()
	defer netns.Set(origNs)

	containerNs, err := netns.NewNamed(nsName)
	if err != nil {
		return kernelRefusalErr(id, fmt.Errorf("creating netns %s: %w", nsName, err))
	}
	defer containerNs.Close()

	// NewNamed leaves the calling thread inside the new namespace; return
	// to the host namespace to move the peer link across, then re-enter
	// to configure it.
	if err = netns.Set(origNs); err != nil {
		return kernelRefusalErr(id, err)
	}

	peerLink, err := netlink.LinkByName(peerName)
	if err != nil {
		return kernelRefusalErr(id, err)
	}
	if err = netlink.LinkSetNsFd(peerLink, int(containerNs)); err != nil {
		return kernelRefusalErr(id, fmt.Errorf("moving %s into %s: %w", peerName, nsName, err))
	}

	if err = netns.Set(containerNs); err != nil {
		return kernelRefusalErr(id, err)
	}

	lo, err := netlink.LinkByName("lo")
	if err != nil {
		return kernelRefusalErr(id, err)
	}
	if err = netlink.LinkSetUp(lo); err != nil {
		return kernelRefusalErr(id, err)
	}

	peerLink, err = netlink.LinkByName(peerName)
	if err != nil {
		return kernelRefusalErr(id, fmt.Errorf("locating %s inside %s: %w", peerName, nsName, err))
	}
	if err = netlink.LinkSetHardwareAddr(peerLink, deriveMAC(nnn)); err != nil {
		return kernelRefusalErr(id, err)
	}

	addr, err := netlink.ParseAddr(deriveIP(nnn) + "/24")
	if err != nil {
		return kernelRefusalErr(id, err)
	}
	if err = netlink.AddrAdd(peerLink, addr); err != nil {
		return kernelRefusalErr(id, err)
	}
	if err = netlink.LinkSetUp(peerLink); err != nil {
		return kernelRefusalErr(id, err)
	}

	gw := net.ParseIP(e.Config.BridgeIP)
	if err = netlink.RouteAdd(&netlink.Route{LinkIndex: peerLink.Attrs().Index, Gw: gw}); err != nil {
		return kernelRefusalErr(id, fmt.Errorf("adding default route via %s: %w", e.Config.BridgeIP, err))
	}

	return nil
}

// teardownNetwork deletes the host-side veth (its peer disappears with it)
// and the named netns (spec.md §4.4 teardown). Both are idempotent:
// "already gone" is not an error, matching the best-effort cleanup
// required by spec.md §4.6 step 10 and testable property 3.
func (e *Engine) teardownNetwork(id string) {
	hostName, _ := vethNames(id)
	nsName := netnsName(id)

	if link, err := netlink.LinkByName(hostName); err == nil {
		if delErr := netlink.LinkDel(link); delErr != nil {
			e.Log.Warnf("removing veth %s: %v", hostName, delErr)
		}
	}

	if err := netns.DeleteNamed(nsName); err != nil {
		e.Log.Debugf("removing netns %s: %v", nsName, err)
	}
}
