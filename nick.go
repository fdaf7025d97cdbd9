/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package ircwire

import "strings"

// nickSpecialStart are the non-letter runes a nickname may start
// with, per RFC 2812's special char production.
const nickSpecialStart = "[]\\`_^{|}"

// Nickname is a validated, canonicalizable IRC nickname, optionally
// scoped to a device, per spec §3 "Nickname".
type Nickname struct {
	Name     string
	DeviceID string
}

// ParseNickname validates and constructs a Nickname from raw text.
// rules may further restrict what's accepted (e.g. rejecting
// underscores); pass NickRules{} for the base grammar only.
func ParseNickname(raw string, rules NickRules) (Nickname, error) {
	if len(raw) < MinNickLength || len(raw) > MaxNickLength {
		return Nickname{}, ErrInvalidNickName
	}

	first := raw[0]
	if !isNickStart(first) {
		return Nickname{}, ErrInvalidNickName
	}

	for i := 1; i < len(raw); i++ {
		if !isNickBody(raw[i]) {
			return Nickname{}, ErrInvalidNickName
		}
	}

	if rules.RejectUnderscore && strings.ContainsRune(raw, '_') {
		return Nickname{}, ErrInvalidNickName
	}

	return Nickname{Name: raw}, nil
}

func isNickStart(b byte) bool {
	if (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') {
		return true
	}
	return strings.IndexByte(nickSpecialStart, b) >= 0
}

func isNickBody(b byte) bool {
	if isNickStart(b) {
		return true
	}
	if b >= '0' && b <= '9' {
		return true
	}
	return b == '-'
}

// foldTable maps the RFC 2812 "rfc1459" case-folding special
// characters to their uppercase siblings before lowercasing.
var foldTable = strings.NewReplacer(
	"[", "{",
	"]", "}",
	"\\", "|",
	"~", "^",
)

// Fold returns the case-folded canonical form of s: `[]\~` map to
// `{}|^`, then the result is lowercased.
func Fold(s string) string {
	return strings.ToLower(foldTable.Replace(s))
}

// Folded returns the nickname's case-folded canonical name.
func (n Nickname) Folded() string {
	return Fold(n.Name)
}

// Equal reports whether two nicknames are equal: their folded names
// and device ids must both match.
func (n Nickname) Equal(other Nickname) bool {
	return n.Folded() == other.Folded() && n.DeviceID == other.DeviceID
}

// String renders the nickname as it appears on the wire. The device
// id, if present, is local bookkeeping and is never rendered.
func (n Nickname) String() string {
	return n.Name
}
