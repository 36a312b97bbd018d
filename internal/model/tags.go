package model

import (
	"errors"
	"strings"
)

var (
	errAddTag    = errors.New("tag must start with +")
	errFilterTag = errors.New("filter tag must start with + or /")
)

// ParseAddTag parses a "+tag" argument.
func ParseAddTag(s string) (string, error) {
	tag, ok := strings.CutPrefix(s, "+")
	if !ok {
		return "", errAddTag
	}
	return tag, nil
}

// FilterTag is a "+tag" (require) or "/tag" (exclude) argument.
type FilterTag struct {
	Tag    string
	Negate bool
}

// ParseFilterTag parses "+tag" or "/tag".
func ParseFilterTag(s string) (FilterTag, error) {
	if tag, ok := strings.CutPrefix(s, "+"); ok {
		return FilterTag{Tag: tag}, nil
	}
	if tag, ok := strings.CutPrefix(s, "/"); ok {
		return FilterTag{Tag: tag, Negate: true}, nil
	}
	return FilterTag{}, errFilterTag
}

// ParseFilterTags parses every argument, failing on the first bad one.
func ParseFilterTags(args []string) ([]FilterTag, error) {
	out := make([]FilterTag, 0, len(args))
	for _, a := range args {
		f, err := ParseFilterTag(a)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// Match reports whether tags pass the filter.
func (f FilterTag) Match(tags []string) bool {
	for _, t := range tags {
		if t == f.Tag {
			return !f.Negate
		}
	}
	return f.Negate
}

// MatchAll reports whether tags pass every filter.
func MatchAll(filters []FilterTag, tags []string) bool {
	for _, f := range filters {
		if !f.Match(tags) {
			return false
		}
	}
	return true
}

// JoinTags renders tags as the comma separated text used for editing.
func JoinTags(tags []string) string {
	return strings.Join(tags, ",")
}

// SplitTags is the inverse used when an edit is committed. It keeps empty
// and repeated entries as typed, so "" becomes [""].
func SplitTags(s string) []string {
	return strings.Split(s, ",")
}
