package ipchecker

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsBadCIDR(t *testing.T) {
	_, err := New("not-a-subnet")
	assert.Error(t, err)
}

func TestAllowed(t *testing.T) {
	guard, err := New("192.168.1.0/24")
	require.NoError(t, err)

	testCases := []struct {
		name       string
		realIP     string
		forwarded  string
		remoteAddr string
		expected   bool
	}{
		{"X-Real-IP inside", "192.168.1.42", "", "10.0.0.1:1234", true},
		{"X-Real-IP outside", "10.0.0.5", "", "192.168.1.1:1234", false},
		{"X-Forwarded-For first entry inside", "", "192.168.1.7, 10.0.0.1", "10.0.0.1:1234", true},
		{"X-Forwarded-For first entry outside", "", "10.0.0.7, 192.168.1.1", "10.0.0.1:1234", false},
		{"RemoteAddr inside", "", "", "192.168.1.200:5678", true},
		{"RemoteAddr outside", "", "", "172.16.0.1:5678", false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/api/internal/stats", nil)
			request.RemoteAddr = testCase.remoteAddr
			if testCase.realIP != "" {
				request.Header.Set("X-Real-IP", testCase.realIP)
			}
			if testCase.forwarded != "" {
				request.Header.Set("X-Forwarded-For", testCase.forwarded)
			}

			assert.Equal(t, testCase.expected, guard.Allowed(request))
		})
	}
}

func TestDisabledGuardDeniesEverything(t *testing.T) {
	guard, err := New("")
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodGet, "/api/internal/stats", nil)
	request.Header.Set("X-Real-IP", "127.0.0.1")

	assert.False(t, guard.Allowed(request))
}
