/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package ircwire

import (
	"github.com/google/uuid"
)

// Message is the tokenized form of a single text IRC line: the tag
// block, an optional source, the command token (a name or a 3-digit
// numeric rendered as text), and its parameters, per spec §3's
// "Typed message" and §4.1's grammar. Dispatch converts a Message
// into a Command; Encode does the inverse.
type Message struct {
	Tags   *Tags
	Source *UserID

	// Raw is the command token as it appeared on the wire: either a
	// command name (uppercased) or a 3-digit numeric string.
	Raw string

	// Params are the middle parameters, in order, not including the
	// trailing parameter.
	Params []string

	// Trailing is the final parameter when introduced by " :" or by
	// being the 15th parameter. HasTrailing distinguishes "no
	// trailing parameter" from "trailing parameter is empty string".
	Trailing    string
	HasTrailing bool

	// ForceTrailingColon marks Trailing as the semantic message body
	// of PRIVMSG/NOTICE/QUIT/KILL, per spec §8 property 3: such a
	// trailing is always colon-prefixed on render regardless of its
	// content.
	ForceTrailingColon bool

	id    uuid.UUID
	hasID bool
}

// ID lazily generates and returns this message's synthetic,
// local-only identity. It is never rendered by Render and MUST NOT be
// compared across processes or serialized, per spec §9.
func (m *Message) ID() uuid.UUID {
	if !m.hasID {
		m.id = uuid.New()
		m.hasID = true
	}
	return m.id
}

// AllParams returns Params with Trailing appended, if present, as a
// single convenience slice matching the Command constructors'
// expectations for variable-arity parameters.
func (m *Message) AllParams() []string {
	if !m.HasTrailing {
		return m.Params
	}
	out := make([]string, 0, len(m.Params)+1)
	out = append(out, m.Params...)
	out = append(out, m.Trailing)
	return out
}

// Scrub resets a Message to its zero value so it can be recycled by
// an itempool.Pool[*Message].
func (m *Message) Scrub() {
	if m.Tags != nil {
		tagPool.Recycle(m.Tags)
	}
	m.Tags = nil
	m.Source = nil
	m.Raw = ""
	m.Params = m.Params[:0]
	m.Trailing = ""
	m.HasTrailing = false
	m.ForceTrailingColon = false
	m.hasID = false
}
