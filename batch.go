/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package ircwire

import "github.com/btnmasher/ircwire/shared/stringutils"

// ChunkJoinNicks batches a list of nicknames into as few
// comma-joined strings as fit within maxLen bytes each, for replies
// like ISON/NAMES whose nick list may not fit in a single classical
// 512-byte line. Each returned string is itself a valid comma-list
// parameter per spec §4.1.
func ChunkJoinNicks(maxLen int, nicks []Nickname) []string {
	raw := make([]string, len(nicks))
	for i, n := range nicks {
		raw[i] = n.String()
	}
	return stringutils.ChunkJoinStrings(maxLen, ",", raw...)
}
