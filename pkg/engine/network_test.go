package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveIPIsInjectiveAcrossPool(t *testing.T) {
	seen := make(map[string]int)
	for n := poolMin; n <= poolMax; n++ {
		ip := deriveIP(n)
		if prev, dup := seen[ip]; dup {
			t.Fatalf("deriveIP(%d) collides with deriveIP(%d): both produced %s", n, prev, ip)
		}
		seen[ip] = n
	}
}

func TestDeriveIPKnownValues(t *testing.T) {
	tests := []struct {
		name string
		nnn  int
		want string
	}{
		{"pool minimum", poolMin, "10.0.0.41"},
		{"pool maximum", poolMax, "10.0.0.253"},
		{"mid pool", 100, "10.0.0.99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, deriveIP(tt.nnn))
		})
	}
}

func TestDeriveMACIsWellFormedAndStable(t *testing.T) {
	for _, nnn := range []int{42, 100, 254} {
		mac := deriveMAC(nnn)
		assert.Len(t, mac, 6)
		assert.Equal(t, mac.String(), deriveMAC(nnn).String(), "must be deterministic for the same input")
	}
}

func TestVethAndNetnsNamesAreDerivedFromID(t *testing.T) {
	host, peer := vethNames("ps_100")
	assert.Contains(t, host, "ps_100")
	assert.Contains(t, peer, "ps_100")
	assert.NotEqual(t, host, peer)

	assert.Contains(t, netnsName("ps_100"), "ps_100")
}
