package audit_test

import (
	"encoding/json"
	"testing"
	"time"

	"go-staffing/internal/audit"

	"github.com/stretchr/testify/assert"
)

func TestComputeDiff(t *testing.T) {
	t.Run("only changed fields are emitted", func(t *testing.T) {
		before := map[string]any{
			"position":    "warehouse operator",
			"hourly_rate": 15.0,
			"max_hours":   160.0,
		}
		after := map[string]any{
			"position":    "warehouse operator",
			"hourly_rate": 17.5,
			"max_hours":   160.0,
		}

		changes := audit.ComputeDiff(before, after)

		assert.Len(t, changes, 1)
		assert.Equal(t, "hourly_rate", changes[0].Field)
		assert.Equal(t, audit.NumberValue(15), changes[0].Before)
		assert.Equal(t, audit.NumberValue(17.5), changes[0].After)

		raw, err := json.Marshal(changes)
		assert.NoError(t, err)
		assert.JSONEq(t, `[{"field":"hourly_rate","before":15,"after":17.5}]`, string(raw))
	})

	t.Run("field order is deterministic", func(t *testing.T) {
		before := map[string]any{"b": 1, "a": 1, "c": 1}
		after := map[string]any{"b": 2, "a": 2, "c": 2}

		changes := audit.ComputeDiff(before, after)

		assert.Len(t, changes, 3)
		assert.Equal(t, "a", changes[0].Field)
		assert.Equal(t, "b", changes[1].Field)
		assert.Equal(t, "c", changes[2].Field)
	})

	t.Run("dropped field becomes explicit null", func(t *testing.T) {
		before := map[string]any{"notes": "night shift"}
		after := map[string]any{}

		changes := audit.ComputeDiff(before, after)

		assert.Len(t, changes, 1)
		assert.Equal(t, "notes", changes[0].Field)
		assert.Equal(t, audit.StringValue("night shift"), changes[0].Before)
		assert.Equal(t, audit.Null(), changes[0].After)

		raw, err := json.Marshal(changes[0])
		assert.NoError(t, err)
		assert.JSONEq(t, `{"field":"notes","before":"night shift","after":null}`, string(raw))
	})

	t.Run("time and equivalent string compare equal", func(t *testing.T) {
		instant := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

		changes := audit.ComputeDiff(
			map[string]any{"start_date": instant},
			map[string]any{"start_date": "2026-09-07"},
		)

		assert.Empty(t, changes)
	})

	t.Run("rfc3339 offsets naming the same instant compare equal", func(t *testing.T) {
		changes := audit.ComputeDiff(
			map[string]any{"confirmed_at": "2026-09-07T10:00:00+02:00"},
			map[string]any{"confirmed_at": "2026-09-07T08:00:00Z"},
		)

		assert.Empty(t, changes)
	})

	t.Run("string true and bool true stay distinct", func(t *testing.T) {
		changes := audit.ComputeDiff(
			map[string]any{"active": "true"},
			map[string]any{"active": true},
		)

		assert.Len(t, changes, 1)
		assert.Equal(t, audit.StringValue("true"), changes[0].Before)
		assert.Equal(t, audit.BoolValue(true), changes[0].After)
	})

	t.Run("int and float of the same magnitude compare equal", func(t *testing.T) {
		changes := audit.ComputeDiff(
			map[string]any{"max_hours": 160},
			map[string]any{"max_hours": 160.0},
		)

		assert.Empty(t, changes)
	})

	t.Run("nested values compare structurally", func(t *testing.T) {
		changes := audit.ComputeDiff(
			map[string]any{"requirements": []string{"forklift license"}},
			map[string]any{"requirements": []string{"forklift license"}},
		)
		assert.Empty(t, changes)

		changes = audit.ComputeDiff(
			map[string]any{"requirements": []string{"forklift license"}},
			map[string]any{"requirements": []string{"forklift license", "night work"}},
		)
		assert.Len(t, changes, 1)
		assert.Equal(t, audit.KindNested, changes[0].After.Kind)
	})

	t.Run("nil snapshots give full images", func(t *testing.T) {
		after := map[string]any{"status": "planned", "weekly_hours": 40.0}

		creation := audit.ComputeDiff(nil, after)
		assert.Len(t, creation, 2)
		for _, c := range creation {
			assert.Equal(t, audit.Null(), c.Before)
		}

		deletion := audit.ComputeDiff(after, nil)
		assert.Len(t, deletion, 2)
		for _, c := range deletion {
			assert.Equal(t, audit.Null(), c.After)
		}
	})

	t.Run("nil valued fields emit nothing", func(t *testing.T) {
		changes := audit.ComputeDiff(
			map[string]any{"approved_by": nil},
			map[string]any{},
		)
		assert.Empty(t, changes)

		changes = audit.ComputeDiff(
			map[string]any{},
			map[string]any{"approved_by": nil},
		)
		assert.Empty(t, changes)
	})

	t.Run("identical snapshots diff to nothing", func(t *testing.T) {
		snap := map[string]any{"status": "active", "weekly_hours": 40.0}
		assert.Empty(t, audit.ComputeDiff(snap, snap))
	})
}

func TestValueJSONRoundTrip(t *testing.T) {
	change := audit.FieldChange{
		Field:  "status",
		Before: audit.StringValue("planned"),
		After:  audit.StringValue("confirmed"),
	}

	raw, err := json.Marshal(change)
	assert.NoError(t, err)

	var decoded audit.FieldChange
	assert.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, change, decoded)
}

func TestSanitize(t *testing.T) {
	t.Run("sensitive top-level fields are redacted", func(t *testing.T) {
		snapshot := map[string]any{
			"email":    "maja.lind@example.com",
			"password": "hunter2",
			"token":    "abc123",
			"secret":   "s",
			"key":      "k",
		}

		out := audit.Sanitize(snapshot)

		assert.Equal(t, "maja.lind@example.com", out["email"])
		assert.Equal(t, audit.Redacted, out["password"])
		assert.Equal(t, audit.Redacted, out["token"])
		assert.Equal(t, audit.Redacted, out["secret"])
		assert.Equal(t, audit.Redacted, out["key"])

		// Original snapshot is untouched.
		assert.Equal(t, "hunter2", snapshot["password"])
	})

	t.Run("redaction flows into the stored diff", func(t *testing.T) {
		before := audit.Sanitize(map[string]any{"password": "old", "email": "a@example.com"})
		after := audit.Sanitize(map[string]any{"password": "new", "email": "a@example.com"})

		// Both sides collapse to the marker, so the password change itself
		// never reaches the ledger in plaintext.
		changes := audit.ComputeDiff(before, after)
		assert.Empty(t, changes)
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, audit.Sanitize(nil))
	})
}
