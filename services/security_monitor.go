package services

import (
	"log"
	"sync"
	"time"
)

const (
	// FailedLoginAlertThreshold is how many failures from one address raise an alert
	FailedLoginAlertThreshold = 10
	// FailedLoginWindow is how far back failures are counted
	FailedLoginWindow = 10 * time.Minute
	// alertCooldown is the minimum gap between two alerts for the same address
	alertCooldown = 1 * time.Hour
	maxAlerts     = 100
)

// SecurityAlert is a raised alert about one client address
type SecurityAlert struct {
	Timestamp time.Time
	IP        string
	Reason    string
}

// SecurityMonitor watches failed sign-ins across all accounts. Per-account
// lockout cannot see one address guessing many emails; this can.
type SecurityMonitor struct {
	mu           sync.Mutex
	failedLogins map[string][]time.Time
	alertedAt    map[string]time.Time
	alerts       []SecurityAlert
}

// Monitor is the process-wide monitor
var Monitor = NewSecurityMonitor()

func NewSecurityMonitor() *SecurityMonitor {
	return &SecurityMonitor{
		failedLogins: make(map[string][]time.Time),
		alertedAt:    make(map[string]time.Time),
	}
}

// TrackFailedLogin records a failed sign-in from ip and reports whether it
// raised a new alert.
func (m *SecurityMonitor) TrackFailedLogin(ip string, now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	windowStart := now.Add(-FailedLoginWindow)
	recent := m.failedLogins[ip][:0]
	for _, t := range m.failedLogins[ip] {
		if t.After(windowStart) {
			recent = append(recent, t)
		}
	}
	recent = append(recent, now)
	m.failedLogins[ip] = recent

	if len(recent) < FailedLoginAlertThreshold {
		return false
	}
	if last, ok := m.alertedAt[ip]; ok && now.Sub(last) < alertCooldown {
		return false
	}

	m.alertedAt[ip] = now
	alert := SecurityAlert{Timestamp: now, IP: ip, Reason: "repeated failed sign-ins"}
	m.alerts = append([]SecurityAlert{alert}, m.alerts...)
	if len(m.alerts) > maxAlerts {
		m.alerts = m.alerts[:maxAlerts]
	}
	log.Printf("[SECURITY ALERT] %d failed sign-ins in %s from IP: %s", len(recent), FailedLoginWindow, ip)
	return true
}

// RecentAlerts returns alerts raised after since, newest first
func (m *SecurityMonitor) RecentAlerts(since time.Time) []SecurityAlert {
	m.mu.Lock()
	defer m.mu.Unlock()

	var alerts []SecurityAlert
	for _, a := range m.alerts {
		if !a.Timestamp.After(since) {
			break
		}
		alerts = append(alerts, a)
	}
	return alerts
}

// Prune drops failure history and alert cooldowns that no longer matter
func (m *SecurityMonitor) Prune(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for ip, attempts := range m.failedLogins {
		if len(attempts) == 0 || now.Sub(attempts[len(attempts)-1]) > FailedLoginWindow {
			delete(m.failedLogins, ip)
		}
	}
	for ip, last := range m.alertedAt {
		if now.Sub(last) > alertCooldown {
			delete(m.alertedAt, ip)
		}
	}
}
