/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package ircwire

import "strings"

// RecipientKind discriminates a Recipient's variant.
type RecipientKind uint8

const (
	RecipientChannel RecipientKind = iota
	RecipientNick
	RecipientAll
)

// Recipient is a message recipient: a channel, a nick, or the literal
// "*" meaning all, per spec §3 "Message recipient".
type Recipient struct {
	Kind    RecipientKind
	Channel ChannelName
	Nick    Nickname
}

// ParseRecipient classifies and validates a single recipient token.
func ParseRecipient(raw string, rules NickRules) (Recipient, error) {
	if raw == "*" {
		return Recipient{Kind: RecipientAll}, nil
	}

	if raw != "" && strings.ContainsRune(channelPrefixes, rune(raw[0])) {
		ch, err := ParseChannelName(raw)
		if err != nil {
			return Recipient{}, err
		}
		return Recipient{Kind: RecipientChannel, Channel: ch}, nil
	}

	nick, err := ParseNickname(raw, rules)
	if err != nil {
		return Recipient{}, err
	}
	return Recipient{Kind: RecipientNick, Nick: nick}, nil
}

// ParseRecipientList splits a comma-separated parameter into
// validated recipients.
func ParseRecipientList(raw string, rules NickRules) ([]Recipient, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	recipients := make([]Recipient, len(parts))
	for i, p := range parts {
		r, err := ParseRecipient(p, rules)
		if err != nil {
			return nil, err
		}
		recipients[i] = r
	}
	return recipients, nil
}

// String renders the recipient back to its wire token.
func (r Recipient) String() string {
	switch r.Kind {
	case RecipientChannel:
		return r.Channel.String()
	case RecipientAll:
		return "*"
	default:
		return r.Nick.String()
	}
}

// JoinRecipients renders a list of recipients as the comma-joined
// wire form.
func JoinRecipients(recipients []Recipient) string {
	parts := make([]string, len(recipients))
	for i, r := range recipients {
		parts[i] = r.String()
	}
	return strings.Join(parts, ",")
}
