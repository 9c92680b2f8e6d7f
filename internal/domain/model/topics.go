package model

import "strings"

// TopicExclusions is an immutable set of synthetic or meta topic labels that
// must not surface in guidance or curricula.
type TopicExclusions struct {
	labels map[string]struct{}
}

// DefaultTopicExclusions excludes the platform's "special problems" meta tag
// in all its spellings.
func DefaultTopicExclusions() TopicExclusions {
	return NewTopicExclusions("special problems", "*special")
}

// NewTopicExclusions builds an exclusion set from labels.
func NewTopicExclusions(labels ...string) TopicExclusions {
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		if n := NormalizeTopic(l); n != "" {
			set[n] = struct{}{}
		}
	}
	return TopicExclusions{labels: set}
}

// Excludes reports whether topic is a meta topic.
func (e TopicExclusions) Excludes(topic string) bool {
	_, ok := e.labels[NormalizeTopic(topic)]
	return ok
}

// Labels returns the normalized labels; order is unspecified.
func (e TopicExclusions) Labels() []string {
	out := make([]string, 0, len(e.labels))
	for l := range e.labels {
		out = append(out, l)
	}
	return out
}

// With returns a new set holding e's labels plus labels.
func (e TopicExclusions) With(labels ...string) TopicExclusions {
	all := make([]string, 0, len(e.labels)+len(labels))
	for l := range e.labels {
		all = append(all, l)
	}
	return NewTopicExclusions(append(all, labels...)...)
}

// WithDefaults returns e extended by DefaultTopicExclusions.
func (e TopicExclusions) WithDefaults() TopicExclusions {
	return DefaultTopicExclusions().With(e.Labels()...)
}

// NormalizeTopic lower-cases, trims, and strips a leading "*" marker.
func NormalizeTopic(topic string) string {
	t := strings.ToLower(strings.TrimSpace(topic))
	return strings.TrimSpace(strings.TrimPrefix(t, "*"))
}
