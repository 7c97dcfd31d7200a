package domain

// TopicGroup is one main topic with its ordered sub-topics, as extracted
// from a search-overview snippet.
type TopicGroup struct {
	Topic     string   `json:"topic"`
	SubTopics []string `json:"sub_topics,omitempty"`
}

// RawDimensions holds the topic set derived for one keyword. Exactly one of
// the two shapes is populated: Groups when the source markup carried headed
// lists, Flat when only plain topic names were available.
type RawDimensions struct {
	Groups []TopicGroup `json:"groups,omitempty"`
	Flat   []string     `json:"flat,omitempty"`
}

// MappedDimensions wraps an ordered main-topic list.
func MappedDimensions(groups []TopicGroup) RawDimensions {
	return RawDimensions{Groups: groups}
}

// FlatDimensions wraps a plain topic list.
func FlatDimensions(topics []string) RawDimensions {
	return RawDimensions{Flat: topics}
}

// IsMapped reports whether the dimensions carry main-topic groupings.
func (d RawDimensions) IsMapped() bool {
	return len(d.Groups) > 0
}

// IsEmpty reports whether no topics were extracted at all.
func (d RawDimensions) IsEmpty() bool {
	return len(d.Groups) == 0 && len(d.Flat) == 0
}

// MainTopics returns up to max top-level topic names regardless of shape.
func (d RawDimensions) MainTopics(max int) []string {
	var names []string
	if d.IsMapped() {
		for _, g := range d.Groups {
			names = append(names, g.Topic)
		}
	} else {
		names = append(names, d.Flat...)
	}
	if max >= 0 && len(names) > max {
		names = names[:max]
	}
	return names
}

// KeywordData couples a keyword with its raw overview markup and the
// dimensions extracted from it.
type KeywordData struct {
	Keyword    string        `json:"keyword"`
	AioHTML    string        `json:"-"`
	Dimensions RawDimensions `json:"dimensions"`
}
