/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package ircwire

import "strings"

// UserID is a parsed IRC user identifier: nick[!user][@host], per
// spec §3 "User identifier". Grounded on the teacher's
// (*User).Hostmask rendering (nick!user@host) — this is its inverse,
// parsing rather than building the hostmask string.
type UserID struct {
	Nick string
	User string
	Host string
}

// ParseUserID greedily parses the last '@' as the host separator,
// then within the remaining prefix the '!' as the user separator, per
// spec §3.
func ParseUserID(raw string) (UserID, error) {
	if raw == "" {
		return UserID{}, ErrInvalidUserID
	}

	id := UserID{Nick: raw}

	if idx := strings.LastIndexByte(id.Nick, '@'); idx >= 0 {
		id.Nick, id.Host = id.Nick[:idx], id.Nick[idx+1:]
	}

	if idx := strings.IndexByte(id.Nick, '!'); idx >= 0 {
		id.Nick, id.User = id.Nick[:idx], id.Nick[idx+1:]
	}

	if id.Nick == "" {
		return UserID{}, ErrInvalidUserID
	}

	return id, nil
}

// String renders the identifier back to its wire form:
// nick[!user][@host].
func (id UserID) String() string {
	var b strings.Builder
	b.WriteString(id.Nick)
	if id.User != "" {
		b.WriteByte('!')
		b.WriteString(id.User)
	}
	if id.Host != "" {
		b.WriteByte('@')
		b.WriteString(id.Host)
	}
	return b.String()
}
