/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package ircwire

import (
	"strings"

	"github.com/btnmasher/ircwire/shared/pool"
)

// MetadataTagKey is the reserved IRCv3 message tag key the engine
// uses to carry multipart fragmentation metadata. See spec §6.
const MetadataTagKey = "packetMetadata"

// Tag is a single IRCv3 message tag. Within a Tags set a tag is
// identified by its key alone (setting an existing key overwrites its
// value); Tag itself has no key-only equality method, so == on two
// Tag values compares both key and value. The value is carried
// verbatim and is never unescaped by this package.
type Tag struct {
	Key   string
	Value string
}

// Tags is an ordered set of Tags, keyed by Tag.Key. Insertion order is
// preserved so encoding is deterministic.
type Tags struct {
	order []string
	byKey map[string]string
}

// NewTags returns an empty Tags set.
func NewTags() *Tags {
	return &Tags{byKey: make(map[string]string)}
}

// Set inserts or overwrites a tag by key, preserving the original
// insertion position on overwrite.
func (t *Tags) Set(key, value string) {
	if t.byKey == nil {
		t.byKey = make(map[string]string)
	}
	if _, exists := t.byKey[key]; !exists {
		t.order = append(t.order, key)
	}
	t.byKey[key] = value
}

// Get returns a tag's value and whether it was present.
func (t *Tags) Get(key string) (string, bool) {
	if t == nil || t.byKey == nil {
		return "", false
	}
	v, ok := t.byKey[key]
	return v, ok
}

// Delete removes a tag by key.
func (t *Tags) Delete(key string) {
	if t == nil || t.byKey == nil {
		return
	}
	if _, exists := t.byKey[key]; !exists {
		return
	}
	delete(t.byKey, key)
	for i, k := range t.order {
		if k == key {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// Len reports the number of tags present.
func (t *Tags) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// Each calls fn for every tag in insertion order.
func (t *Tags) Each(fn func(key, value string)) {
	if t == nil {
		return
	}
	for _, key := range t.order {
		fn(key, t.byKey[key])
	}
}

// Reset clears the tag set for reuse with tagPool, satisfying
// pool.Resettable.
func (t *Tags) Reset() {
	t.order = t.order[:0]
	for k := range t.byKey {
		delete(t.byKey, k)
	}
}

// tagPool recycles Tags values for the hot parseTags path, grounded
// on the teacher's generic pool.Pool wrapper around sync.Pool.
var tagPool = pool.New[*Tags](func() *Tags { return NewTags() })

// Clone returns a deep copy of the tag set.
func (t *Tags) Clone() *Tags {
	if t == nil {
		return NewTags()
	}
	clone := &Tags{
		order: append([]string(nil), t.order...),
		byKey: make(map[string]string, len(t.byKey)),
	}
	for k, v := range t.byKey {
		clone.byKey[k] = v
	}
	return clone
}

// parseTags parses the portion of a line after the leading '@' and
// before the separating space, per spec §4.1's `tags := tag (';' tag)*`
// grammar. Empty values are permitted; an empty key is an error.
func parseTags(raw string) (*Tags, error) {
	tags := tagPool.New()
	if raw == "" {
		return tags, nil
	}

	for _, part := range strings.Split(raw, ";") {
		if part == "" {
			return nil, &ParseFailureError{Reason: "empty tag in tag list"}
		}
		key, value, _ := strings.Cut(part, "=")
		if key == "" {
			return nil, &ParseFailureError{Reason: "empty tag key"}
		}
		if len(value) >= MaxTagsLength {
			return nil, ErrInvalidTag
		}
		tags.Set(key, value)
	}

	return tags, nil
}

// renderTags encodes the tag set as the `@key=value;key2=value2 `
// prefix, including the trailing space. Returns "" if there are no
// tags.
func renderTags(t *Tags) string {
	if t.Len() == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteByte('@')
	first := true
	t.Each(func(key, value string) {
		if !first {
			b.WriteByte(';')
		}
		first = false
		b.WriteString(key)
		if value != "" {
			b.WriteByte('=')
			b.WriteString(value)
		}
	})
	b.WriteByte(' ')
	return b.String()
}
