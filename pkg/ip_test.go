package pkg

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIPIsLocal(t *testing.T) {
	cases := []struct {
		addr            string
		expectedIsLocal bool
	}{
		{addr: "83.12.53.65", expectedIsLocal: false},
		{addr: "127.23.0.1", expectedIsLocal: false},
		{addr: "127.0.0.1", expectedIsLocal: true},
		{addr: "::1", expectedIsLocal: true},
		{addr: "172.20.0.1", expectedIsLocal: true},
		{addr: "172.200.0.1", expectedIsLocal: true},
		{addr: "172.19.2.1", expectedIsLocal: false},
		{addr: "111.12.56.65", expectedIsLocal: false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expectedIsLocal, IPIsLocal(tc.addr), tc.addr)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "83.12.53.65:2145"
	assert.Equal(t, "83.12.53.65", ClientIP(req))

	req.Header.Set("X-Forwarded-For", "91.2.3.4, 10.0.0.1")
	assert.Equal(t, "91.2.3.4", ClientIP(req))

	req.Header.Set("X-Real-Ip", "5.6.7.8")
	assert.Equal(t, "5.6.7.8", ClientIP(req))

	local := httptest.NewRequest("GET", "/", nil)
	local.RemoteAddr = "172.20.0.1:60102"
	assert.Equal(t, "localhost", ClientIP(local))
}
