/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package ircwire

import "strings"

const channelPrefixes = "#&+!"

// ChannelName is a validated, case-foldable IRC channel name, per
// spec §3 "Channel name" and the NeedleTailChannel scenarios of §8
// (S6): length 2..=50, first byte one of `#&+!`, body excludes BEL,
// SPACE, and COMMA.
type ChannelName struct {
	name string
}

// ParseChannelName validates raw and returns a ChannelName.
func ParseChannelName(raw string) (ChannelName, error) {
	if len(raw) < MinChanLength || len(raw) > MaxChanLength {
		return ChannelName{}, ErrInvalidChannelName
	}

	if !strings.ContainsRune(channelPrefixes, rune(raw[0])) {
		return ChannelName{}, ErrInvalidChannelName
	}

	for i := 1; i < len(raw); i++ {
		switch raw[i] {
		case 0x07, 0x20, 0x2C:
			return ChannelName{}, ErrInvalidChannelName
		}
	}

	return ChannelName{name: raw}, nil
}

// Folded returns the channel's case-folded canonical name, using the
// same folding transform as Nickname.
func (c ChannelName) Folded() string {
	return Fold(c.name)
}

// Equal reports whether two channel names are equal under folding.
func (c ChannelName) Equal(other ChannelName) bool {
	return c.Folded() == other.Folded()
}

// String renders the channel name as it appears on the wire.
func (c ChannelName) String() string {
	return c.name
}

// ParseChannelList splits a comma-separated parameter into validated
// channel names, per spec §4.1's "comma-separated list parameters".
func ParseChannelList(raw string) ([]ChannelName, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	names := make([]ChannelName, len(parts))
	for i, p := range parts {
		name, err := ParseChannelName(p)
		if err != nil {
			return nil, err
		}
		names[i] = name
	}
	return names, nil
}

// JoinChannelNames renders a list of channel names as the
// comma-joined wire form, with no spaces around the commas.
func JoinChannelNames(names []ChannelName) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n.String()
	}
	return strings.Join(parts, ",")
}
