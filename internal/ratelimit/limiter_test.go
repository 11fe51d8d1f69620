package ratelimit

import (
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockClock struct {
	mu  sync.Mutex
	now time.Time
}

func newMockClock() *mockClock {
	return &mockClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *mockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *mockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestCheckSubmit_Cooldown(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{
		Cooldown:        60 * time.Second,
		MaxPerHour:      5,
		MaxPerIPPerHour: 20,
		Clock:           clock,
	})

	identifier := "maria@example.com"
	ip := "192.168.1.1"

	result := limiter.CheckSubmit(identifier, ip)
	require.True(t, result.Allowed, "first submission blocked: %s", result.Reason)
	limiter.RecordSubmit(identifier, ip)

	clock.Advance(30 * time.Second)
	result = limiter.CheckSubmit(identifier, ip)
	assert.False(t, result.Allowed, "submission within cooldown should be blocked")
	assert.Equal(t, "cooldown", result.Reason)
	assert.Equal(t, 30*time.Second, result.RetryAfter)

	clock.Advance(31 * time.Second)
	result = limiter.CheckSubmit(identifier, ip)
	assert.True(t, result.Allowed, "submission after cooldown blocked: %s", result.Reason)
}

func TestCheckSubmit_HourlyLimit(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{
		Cooldown:        time.Millisecond,
		MaxPerHour:      3,
		MaxPerIPPerHour: 20,
		Clock:           clock,
	})

	identifier := "hourly@example.com"
	ip := "192.168.1.2"

	for i := 0; i < 3; i++ {
		clock.Advance(time.Second)
		result := limiter.CheckSubmit(identifier, ip)
		require.True(t, result.Allowed, "submission %d blocked: %s", i+1, result.Reason)
		limiter.RecordSubmit(identifier, ip)
	}

	clock.Advance(time.Second)
	result := limiter.CheckSubmit(identifier, ip)
	assert.False(t, result.Allowed)
	assert.Equal(t, "hourly_limit", result.Reason)

	clock.Advance(time.Hour)
	result = limiter.CheckSubmit(identifier, ip)
	assert.True(t, result.Allowed, "submission after an hour blocked: %s", result.Reason)
}

func TestCheckSubmit_IPLimit(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{
		Cooldown:        time.Millisecond,
		MaxPerHour:      100,
		MaxPerIPPerHour: 2,
		Clock:           clock,
	})

	ip := "203.0.113.7"
	for _, identifier := range []string{"a@example.com", "b@example.com"} {
		clock.Advance(time.Second)
		result := limiter.CheckSubmit(identifier, ip)
		require.True(t, result.Allowed, "%s blocked: %s", identifier, result.Reason)
		limiter.RecordSubmit(identifier, ip)
	}

	result := limiter.CheckSubmit("c@example.com", ip)
	assert.False(t, result.Allowed)
	assert.Equal(t, "ip_hourly_limit", result.Reason)
}

func TestCheckSubmit_IdentifierNormalization(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{Cooldown: time.Minute, MaxPerHour: 5, MaxPerIPPerHour: 20, Clock: clock})

	limiter.RecordSubmit("Maria@Example.com", "10.0.0.1")
	result := limiter.CheckSubmit("  maria@example.com ", "10.0.0.2")
	assert.False(t, result.Allowed, "case and whitespace variants should share a cooldown")
}

func TestCheckAndRecord_SeparateOps(t *testing.T) {
	limiter := New(&Config{Cooldown: time.Minute, MaxPerHour: 5, MaxPerIPPerHour: 20, Clock: newMockClock()})

	for i := 0; i < 3; i++ {
		result := limiter.CheckSubmit("check@example.com", "10.0.0.3")
		assert.True(t, result.Allowed, "check without record should never block, got %s", result.Reason)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		trustProxy bool
		expected   string
	}{
		{
			name:       "trusted_xff_rightmost_public",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.50, 10.0.0.1"},
			remoteAddr: "10.0.0.1:12345",
			trustProxy: true,
			expected:   "203.0.113.50",
		},
		{
			name:       "trusted_xff_all_private",
			headers:    map[string]string{"X-Forwarded-For": "192.168.1.1, 10.0.0.1"},
			remoteAddr: "10.0.0.1:12345",
			trustProxy: true,
			expected:   "10.0.0.1",
		},
		{
			name:       "trusted_real_ip",
			headers:    map[string]string{"X-Real-IP": "203.0.113.51"},
			remoteAddr: "10.0.0.1:12345",
			trustProxy: true,
			expected:   "203.0.113.51",
		},
		{
			name:       "untrusted_ignores_xff",
			headers:    map[string]string{"X-Forwarded-For": "1.2.3.4"},
			remoteAddr: "192.168.1.100:54321",
			trustProxy: false,
			expected:   "192.168.1.100",
		},
		{
			name:       "remote_addr_without_port",
			remoteAddr: "192.168.1.100",
			expected:   "192.168.1.100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := http.NewRequest(http.MethodPost, "/api/v1/booking/submit", nil)
			require.NoError(t, err)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.expected, GetClientIP(r, tt.trustProxy))
		})
	}
}

func TestSanitizeIdentifier(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"maria.silva@example.com", "ma***@example.com"},
		{"MARIA.SILVA@EXAMPLE.COM", "ma***@example.com"},
		{"ab@example.com", "***@example.com"},
		{"5f0c2a9e-1d4b-4c55-9f5e-7a1b2c3d4e5f", "***4e5f"},
		{"123", "***"},
		{"", "***"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeIdentifier(tt.input))
		})
	}
}

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip       string
		expected bool
	}{
		{"10.0.0.1", true},
		{"172.31.255.255", true},
		{"192.168.1.1", true},
		{"127.0.0.1", true},
		{"::1", true},
		{"fe80::1", true},
		{"::ffff:192.168.1.1", true},
		{"::ffff:8.8.8.8", false},
		{"203.0.113.50", false},
		{"2001:4860:4860::8888", false},
		{"invalid", false},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			assert.Equal(t, tt.expected, isPrivateIP(tt.ip))
		})
	}
}

func TestNew_NilConfig(t *testing.T) {
	limiter := New(nil)
	assert.Equal(t, DefaultConfig().MaxPerHour, limiter.config.MaxPerHour, "nil config should use defaults")
}

func TestConcurrentAccess(t *testing.T) {
	limiter := New(&Config{Cooldown: time.Millisecond, MaxPerHour: 1000, MaxPerIPPerHour: 1000})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			limiter.CheckSubmit("concurrent@example.com", "10.0.0.9")
			limiter.RecordSubmit("concurrent@example.com", "10.0.0.9")
		}()
	}
	wg.Wait()
}

func TestPrune(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{
		Cooldown:        time.Second,
		MaxPerHour:      3,
		MaxPerIPPerHour: 20,
		Clock:           clock,
	})

	limiter.RecordSubmit("old@example.com", "198.51.100.1")
	clock.Advance(50 * time.Minute)
	limiter.RecordSubmit("recent@example.com", "198.51.100.2")

	assert.Equal(t, 0, limiter.Prune(), "nothing expires before an hour")

	clock.Advance(11 * time.Minute)
	assert.Equal(t, 2, limiter.Prune(), "identifier and ip of the old submission")
	assert.Len(t, limiter.byID, 1)
	assert.Len(t, limiter.byIP, 1)
}
