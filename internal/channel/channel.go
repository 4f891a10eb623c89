// pattern: Functional Core

// Package channel computes channel identities: plain channel names, on-demand
// channels derived from a configuration map, and stacks of member channels.
//
// Identities are plain strings. Two stacks with the same label and the same
// members resolve to the same identity regardless of member order.
package channel

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

const (
	// StackPrefix marks a stack identity.
	StackPrefix = "stack::"
	// OnDemandPrefix marks an identity built from a configuration map.
	OnDemandPrefix = "ondemand::"
	// Unnamed is the label used for stacks created without one.
	Unnamed = "unnamed"

	labelSeparator  = ":"
	memberSeparator = ","
)

// Resolve returns name, or fallback when name is empty.
func Resolve(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

// Stack returns the canonical identity of a stack made of members.
// An empty label is replaced by Unnamed.
//
//	Stack([]string{"b", "a"}, "grp") == "stack::grp:a,b"
func Stack(members []string, label string) string {
	sorted := slices.Clone(members)
	slices.Sort(sorted)

	var sb strings.Builder
	sb.WriteString(StackPrefix)
	sb.WriteString(Resolve(label, Unnamed))
	sb.WriteString(labelSeparator)
	sb.WriteString(strings.Join(sorted, memberSeparator))
	return sb.String()
}

// OnDemand returns the identity of a channel built from cfg. The map is
// serialized as JSON, which orders object keys, so equal maps always produce
// the same identity.
func OnDemand(cfg map[string]any) (string, error) {
	if cfg == nil {
		cfg = map[string]any{}
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to encode on-demand channel config: %w", err)
	}
	return OnDemandPrefix + string(data), nil
}

// IsStack reports whether id was produced by Stack.
func IsStack(id string) bool {
	return strings.HasPrefix(id, StackPrefix)
}

// IsOnDemand reports whether id was produced by OnDemand.
func IsOnDemand(id string) bool {
	return strings.HasPrefix(id, OnDemandPrefix)
}

// ParseStack splits a stack identity back into its label and sorted members.
// ok is false when id is not a stack identity.
func ParseStack(id string) (label string, members []string, ok bool) {
	rest, found := strings.CutPrefix(id, StackPrefix)
	if !found {
		return "", nil, false
	}
	label, list, found := strings.Cut(rest, labelSeparator)
	if !found {
		return "", nil, false
	}
	if list == "" {
		return label, []string{}, true
	}
	return label, strings.Split(list, memberSeparator), true
}
