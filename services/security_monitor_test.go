package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSecurityMonitor(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Alert after threshold", func(t *testing.T) {
		m := NewSecurityMonitor()
		for i := 0; i < FailedLoginAlertThreshold-1; i++ {
			assert.False(t, m.TrackFailedLogin("10.0.0.1", now.Add(time.Duration(i)*time.Second)))
		}
		assert.True(t, m.TrackFailedLogin("10.0.0.1", now.Add(time.Minute)))

		alerts := m.RecentAlerts(now)
		assert.Len(t, alerts, 1)
		assert.Equal(t, "10.0.0.1", alerts[0].IP)
		assert.Empty(t, m.RecentAlerts(now.Add(time.Minute)))
	})

	t.Run("Recent alerts newest first", func(t *testing.T) {
		m := NewSecurityMonitor()
		for i, ip := range []string{"10.0.1.1", "10.0.1.2"} {
			at := now.Add(time.Duration(i) * time.Hour)
			for j := 0; j < FailedLoginAlertThreshold; j++ {
				m.TrackFailedLogin(ip, at)
			}
		}

		alerts := m.RecentAlerts(now.Add(-time.Second))
		assert.Len(t, alerts, 2)
		assert.Equal(t, "10.0.1.2", alerts[0].IP)
		assert.Len(t, m.RecentAlerts(now.Add(30*time.Minute)), 1)
	})

	t.Run("Alerts are rate limited per address", func(t *testing.T) {
		m := NewSecurityMonitor()
		raised := 0
		for i := 0; i < 3*FailedLoginAlertThreshold; i++ {
			if m.TrackFailedLogin("10.0.0.2", now.Add(time.Duration(i)*time.Second)) {
				raised++
			}
		}
		assert.Equal(t, 1, raised)
	})

	t.Run("Old failures fall out of the window", func(t *testing.T) {
		m := NewSecurityMonitor()
		for i := 0; i < FailedLoginAlertThreshold-1; i++ {
			m.TrackFailedLogin("10.0.0.3", now)
		}
		assert.False(t, m.TrackFailedLogin("10.0.0.3", now.Add(FailedLoginWindow+time.Second)))
	})

	t.Run("Prune", func(t *testing.T) {
		m := NewSecurityMonitor()
		m.TrackFailedLogin("10.0.0.4", now)
		m.Prune(now.Add(2 * time.Hour))

		m.mu.Lock()
		defer m.mu.Unlock()
		assert.Empty(t, m.failedLogins)
	})
}
