package activitymap

import (
	"context"
	"sort"
	"strings"
	"time"

	enrollment "github.com/goliatone/go-enrollment"
)

const (
	// MetadataKeyRole stores the principal kind the event was emitted for
	MetadataKeyRole = "role"
	// MetadataKeyOutcome is "success" or "failure"
	MetadataKeyOutcome = "outcome"
)

const (
	defaultChannel = "auth"
	anonymousActor = "anonymous"
)

// Normalized is a transport-agnostic activity shape for downstream systems.
type Normalized struct {
	ActorID    string         `json:"actor_id"`
	Verb       string         `json:"verb"`
	ObjectType string         `json:"object_type,omitempty"`
	ObjectID   string         `json:"object_id,omitempty"`
	Channel    string         `json:"channel,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// Option customizes normalization behavior.
type Option func(*normalizeOptions)

type normalizeOptions struct {
	channel       string
	actorFallback string
	now           func() time.Time
}

// Normalize converts an enrollment.ActivityEvent into a generic shape.
// Failed logins carry no user id, their actor falls back to "anonymous".
func Normalize(event enrollment.ActivityEvent, opts ...Option) Normalized {
	options := normalizeOptions{
		channel:       defaultChannel,
		actorFallback: anonymousActor,
		now:           time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	userID := strings.TrimSpace(event.UserID)
	actorID := userID
	if actorID == "" {
		actorID = options.actorFallback
	}

	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = options.now().UTC()
	}

	return Normalized{
		ActorID:    actorID,
		Verb:       string(event.EventType),
		ObjectType: string(event.Role),
		ObjectID:   userID,
		Channel:    options.channel,
		Metadata:   normalizeMetadata(event),
		OccurredAt: occurredAt,
	}
}

// WithDefaultChannel sets the channel for normalized records.
func WithDefaultChannel(channel string) Option {
	return func(opts *normalizeOptions) {
		if c := strings.TrimSpace(channel); c != "" {
			opts.channel = c
		}
	}
}

// WithActorFallback sets the actor id used when the event has no user id.
func WithActorFallback(actorID string) Option {
	return func(opts *normalizeOptions) {
		if a := strings.TrimSpace(actorID); a != "" {
			opts.actorFallback = a
		}
	}
}

// WithClock sets the time used for events without OccurredAt
func WithClock(now func() time.Time) Option {
	return func(opts *normalizeOptions) {
		if now != nil {
			opts.now = now
		}
	}
}

// LogSink returns an ActivitySink writing normalized events to logger.
// Login failures are logged as warnings.
func LogSink(logger enrollment.Logger, opts ...Option) enrollment.ActivitySink {
	return enrollment.ActivitySinkFunc(func(_ context.Context, event enrollment.ActivityEvent) error {
		n := Normalize(event, opts...)
		args := []any{
			"verb", n.Verb,
			"actor", n.ActorID,
			"object_type", n.ObjectType,
			"channel", n.Channel,
		}
		for _, k := range sortedKeys(n.Metadata) {
			args = append(args, k, n.Metadata[k])
		}

		if event.EventType == enrollment.ActivityEventLoginFailure {
			logger.Warn("activity", args...)
		} else {
			logger.Info("activity", args...)
		}
		return nil
	})
}

func normalizeMetadata(event enrollment.ActivityEvent) map[string]any {
	metadata := make(map[string]any, len(event.Metadata)+2)
	for key, value := range event.Metadata {
		metadata[key] = value
	}

	if event.Role != "" {
		if _, exists := metadata[MetadataKeyRole]; !exists {
			metadata[MetadataKeyRole] = string(event.Role)
		}
	}

	if event.EventType == enrollment.ActivityEventLoginFailure {
		metadata[MetadataKeyOutcome] = "failure"
	} else {
		metadata[MetadataKeyOutcome] = "success"
	}

	return metadata
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
