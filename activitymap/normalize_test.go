package activitymap_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	enrollment "github.com/goliatone/go-enrollment"
	"github.com/goliatone/go-enrollment/activitymap"
)

func TestNormalizeDefaults(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, 1, 10, 9, 30, 0, 0, time.UTC)
	event := enrollment.ActivityEvent{
		EventType: enrollment.ActivityEventRegistered,
		Role:      enrollment.RoleStudent,
		UserID:    "42",
		Metadata: map[string]any{
			"registration_number": "MWSS20260001",
		},
		OccurredAt: ts,
	}

	out := activitymap.Normalize(event)

	if out.ActorID != "42" {
		t.Fatalf("expected actor_id 42, got %q", out.ActorID)
	}
	if out.Verb != string(enrollment.ActivityEventRegistered) {
		t.Fatalf("expected verb %q, got %q", enrollment.ActivityEventRegistered, out.Verb)
	}
	if out.ObjectType != "student" {
		t.Fatalf("expected object_type student, got %q", out.ObjectType)
	}
	if out.ObjectID != "42" {
		t.Fatalf("expected object_id 42, got %q", out.ObjectID)
	}
	if out.Channel != "auth" {
		t.Fatalf("expected channel auth, got %q", out.Channel)
	}
	if !out.OccurredAt.Equal(ts) {
		t.Fatalf("expected occurred_at %v, got %v", ts, out.OccurredAt)
	}
	if out.Metadata["registration_number"] != "MWSS20260001" {
		t.Fatalf("expected registration number in metadata, got %#v", out.Metadata)
	}
	if out.Metadata[activitymap.MetadataKeyRole] != "student" {
		t.Fatalf("expected role student, got %#v", out.Metadata[activitymap.MetadataKeyRole])
	}
	if out.Metadata[activitymap.MetadataKeyOutcome] != "success" {
		t.Fatalf("expected outcome success, got %#v", out.Metadata[activitymap.MetadataKeyOutcome])
	}

	if len(event.Metadata) != 1 {
		t.Fatalf("expected source metadata to remain unchanged, got %+v", event.Metadata)
	}
}

func TestNormalizeLoginFailure(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	event := enrollment.ActivityEvent{
		EventType: enrollment.ActivityEventLoginFailure,
		Role:      enrollment.RoleAdmin,
		Metadata:  map[string]any{"email": "root@example.com"},
	}

	out := activitymap.Normalize(event,
		activitymap.WithDefaultChannel("security"),
		activitymap.WithClock(func() time.Time { return fixed }),
	)

	if out.ActorID != "anonymous" {
		t.Fatalf("expected anonymous actor, got %q", out.ActorID)
	}
	if out.ObjectID != "" {
		t.Fatalf("expected empty object id, got %q", out.ObjectID)
	}
	if out.Channel != "security" {
		t.Fatalf("expected channel security, got %q", out.Channel)
	}
	if !out.OccurredAt.Equal(fixed) {
		t.Fatalf("expected occurred_at from clock, got %v", out.OccurredAt)
	}
	if out.Metadata[activitymap.MetadataKeyOutcome] != "failure" {
		t.Fatalf("expected outcome failure, got %#v", out.Metadata[activitymap.MetadataKeyOutcome])
	}
}

func TestNormalizeActorFallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		event  enrollment.ActivityEvent
		opts   []activitymap.Option
		expect string
	}{
		{
			name:   "uses user id when present",
			event:  enrollment.ActivityEvent{UserID: "7"},
			expect: "7",
		},
		{
			name:   "trims user id",
			event:  enrollment.ActivityEvent{UserID: " 8 "},
			expect: "8",
		},
		{
			name:   "uses default fallback when user missing",
			event:  enrollment.ActivityEvent{},
			expect: "anonymous",
		},
		{
			name:   "uses configured fallback when user missing",
			event:  enrollment.ActivityEvent{},
			opts:   []activitymap.Option{activitymap.WithActorFallback("system")},
			expect: "system",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			out := activitymap.Normalize(tc.event, tc.opts...)
			if out.ActorID != tc.expect {
				t.Fatalf("expected actor_id %q, got %q", tc.expect, out.ActorID)
			}
		})
	}
}

type recordingLogger struct {
	lines []string
}

func (r *recordingLogger) record(level, msg string, args ...any) {
	r.lines = append(r.lines, level+" "+msg+" "+fmt.Sprint(args...))
}

func (r *recordingLogger) Debug(msg string, args ...any) { r.record("debug", msg, args...) }
func (r *recordingLogger) Info(msg string, args ...any)  { r.record("info", msg, args...) }
func (r *recordingLogger) Warn(msg string, args ...any)  { r.record("warn", msg, args...) }
func (r *recordingLogger) Error(msg string, args ...any) { r.record("error", msg, args...) }

func TestLogSink(t *testing.T) {
	t.Parallel()

	logger := &recordingLogger{}
	sink := activitymap.LogSink(logger)

	if err := sink.Record(context.Background(), enrollment.ActivityEvent{
		EventType: enrollment.ActivityEventLoginSuccess,
		Role:      enrollment.RoleAdmin,
		UserID:    "1",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := sink.Record(context.Background(), enrollment.ActivityEvent{
		EventType: enrollment.ActivityEventLoginFailure,
		Role:      enrollment.RoleStudent,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(logger.lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d", len(logger.lines))
	}
	if !strings.HasPrefix(logger.lines[0], "info activity") {
		t.Fatalf("expected success at info, got %q", logger.lines[0])
	}
	if !strings.HasPrefix(logger.lines[1], "warn activity") {
		t.Fatalf("expected failure at warn, got %q", logger.lines[1])
	}
	if !strings.Contains(logger.lines[1], "anonymous") {
		t.Fatalf("expected anonymous actor in %q", logger.lines[1])
	}
}
