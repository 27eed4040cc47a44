package deeputil

import (
	"encoding/json"
	"math"
	"testing"
)

func TestCloneScalarsPassThrough(t *testing.T) {
	for _, value := range []any{nil, "text", true, 42, int64(7), 3.5, json.Number("9")} {
		if got := Clone(value); got != value {
			t.Fatalf("Clone(%v) = %v, want identical scalar", value, got)
		}
	}
}

func TestCloneMapIsIndependent(t *testing.T) {
	source := map[string]any{
		"name": "Ann",
		"tags": []any{"a", "b"},
		"prefs": map[string]any{
			"theme": "dark",
		},
	}
	clone := Clone(source).(map[string]any)

	clone["name"] = "Bob"
	clone["tags"].([]any)[0] = "z"
	clone["prefs"].(map[string]any)["theme"] = "light"

	if source["name"] != "Ann" {
		t.Fatalf("mutating clone leaked into source name: %v", source["name"])
	}
	if source["tags"].([]any)[0] != "a" {
		t.Fatalf("mutating clone leaked into source slice: %v", source["tags"])
	}
	if source["prefs"].(map[string]any)["theme"] != "dark" {
		t.Fatalf("mutating clone leaked into nested map: %v", source["prefs"])
	}
}

func TestCloneMapPreservesNil(t *testing.T) {
	if CloneMap(nil) != nil {
		t.Fatalf("CloneMap(nil) should stay nil")
	}
	empty := CloneMap(map[string]any{})
	if empty == nil || len(empty) != 0 {
		t.Fatalf("CloneMap(empty) should stay empty, got %v", empty)
	}
}

func TestEqualScalars(t *testing.T) {
	cases := []struct {
		name string
		a, b any
		want bool
	}{
		{"identical strings", "x", "x", true},
		{"different strings", "x", "y", false},
		{"nil both", nil, nil, true},
		{"nil one side", nil, "x", false},
		{"bool", true, true, true},
		{"int vs float same magnitude", 3, float64(3), true},
		{"int vs float different", 3, 3.5, false},
		{"json number", json.Number("4"), 4, true},
		{"nan equals nan", math.NaN(), math.NaN(), true},
		{"nan vs number", math.NaN(), 1.0, false},
		{"number vs string", 1, "1", false},
	}
	for _, tc := range cases {
		if got := Equal(tc.a, tc.b); got != tc.want {
			t.Errorf("%s: Equal(%v, %v) = %v, want %v", tc.name, tc.a, tc.b, got, tc.want)
		}
	}
}

func TestEqualContainers(t *testing.T) {
	cases := []struct {
		name string
		a, b any
		want bool
	}{
		{
			"maps order-insensitive",
			map[string]any{"a": 1, "b": 2},
			map[string]any{"b": 2, "a": 1},
			true,
		},
		{
			"maps across numeric widths",
			map[string]any{"n": 1},
			map[string]any{"n": float64(1)},
			true,
		},
		{
			"maps missing key",
			map[string]any{"a": 1},
			map[string]any{"b": 1},
			false,
		},
		{
			"sequences order-sensitive",
			[]any{1, 2},
			[]any{2, 1},
			false,
		},
		{
			"sequences equal",
			[]any{1, "x", nil},
			[]any{1, "x", nil},
			true,
		},
		{
			"sequence length mismatch",
			[]any{1},
			[]any{1, 2},
			false,
		},
		{
			"nested",
			map[string]any{"inner": map[string]any{"list": []any{1.0, 2.0}}},
			map[string]any{"inner": map[string]any{"list": []any{1, 2}}},
			true,
		},
		{
			"nan nested",
			map[string]any{"v": math.NaN()},
			map[string]any{"v": math.NaN()},
			true,
		},
	}
	for _, tc := range cases {
		if got := Equal(tc.a, tc.b); got != tc.want {
			t.Errorf("%s: Equal = %v, want %v", tc.name, got, tc.want)
		}
	}
}
