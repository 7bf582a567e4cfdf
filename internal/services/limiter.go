package services

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/workbridge/workbridge/internal/types"
)

// Policy bounds one operation class per key per window.
type Policy struct {
	Name   string
	Limit  int
	Window time.Duration
}

// Admission policies
var (
	// PolicyApplication bounds application submission
	PolicyApplication = Policy{Name: "application", Limit: 10, Window: time.Hour}
	// PolicyInvitation bounds invitation sending
	PolicyInvitation = Policy{Name: "invitation", Limit: 20, Window: time.Hour}
	// PolicyContract bounds contract actions
	PolicyContract = Policy{Name: "contract", Limit: 50, Window: 15 * time.Minute}
	// PolicyFeedback bounds feedback submission
	PolicyFeedback = Policy{Name: "feedback", Limit: 10, Window: time.Hour}
)

// AdmissionLimiter bounds the rate of mutating operations per actor.
// A denial never mutates state and is not retriable immediately.
type AdmissionLimiter interface {
	Allow(key string, policy Policy) error
}

type limiterEntry struct {
	limiter  *rate.Limiter
	window   time.Duration
	lastSeen time.Time
}

// admissionLimiter keeps one token bucket per (policy, key). Buckets
// idle for several windows are pruned on the next Allow call once the
// map grows past pruneThreshold.
type admissionLimiter struct {
	mu      sync.Mutex
	buckets map[string]*limiterEntry
}

const pruneThreshold = 1024

// NewAdmissionLimiter creates an in-process admission limiter.
func NewAdmissionLimiter() AdmissionLimiter {
	return &admissionLimiter{buckets: make(map[string]*limiterEntry)}
}

func (l *admissionLimiter) Allow(key string, policy Policy) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	bucketKey := policy.Name + ":" + key
	entry, ok := l.buckets[bucketKey]
	if !ok {
		entry = &limiterEntry{
			limiter: rate.NewLimiter(rate.Every(policy.Window/time.Duration(policy.Limit)), policy.Limit),
			window:  policy.Window,
		}
		l.buckets[bucketKey] = entry
	}
	entry.lastSeen = time.Now()

	if len(l.buckets) > pruneThreshold {
		l.prune()
	}

	reservation := entry.limiter.Reserve()
	if delay := reservation.Delay(); delay > 0 {
		reservation.Cancel()
		return &types.RateLimitedError{Policy: policy.Name, RetryAfter: delay}
	}
	return nil
}

// prune drops buckets idle for several of their own policy windows. The
// cutoff is per entry so calls under a short-window policy cannot evict
// the still-live buckets of a longer one.
func (l *admissionLimiter) prune() {
	now := time.Now()
	for key, entry := range l.buckets {
		if now.Sub(entry.lastSeen) > 3*entry.window {
			delete(l.buckets, key)
		}
	}
}

// ActorKey derives the limiter key for an authenticated actor.
func ActorKey(actorID uint) string {
	return fmt.Sprintf("actor:%d", actorID)
}
