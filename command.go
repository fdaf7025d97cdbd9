/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package ircwire

import "strings"

// CommandKind discriminates the Command sum type, per spec §3
// "Command variant". It is a closed set: every RFC 1459/2812 command
// this engine understands, plus CAP, numerics, and DCC/SDCC variants.
type CommandKind uint8

const (
	KindNick CommandKind = iota
	KindUser
	KindIson
	KindQuit
	KindPing
	KindPong
	KindJoin
	KindJoin0
	KindPart
	KindList
	KindPrivMsg
	KindNotice
	KindMode
	KindModeGet
	KindChannelMode
	KindChannelModeGet
	KindChannelModeGetBanmask
	KindWhois
	KindWho
	KindKick
	KindKill
	KindCap
	KindNumeric
	KindOtherCommand
	KindOtherNumeric
	KindDCCChat
	KindDCCSend
	KindDCCResume
	KindSDCCChat
	KindSDCCSend
	KindSDCCResume
)

// UserDetails carries the four USER registration parameters, per RFC
// 2812: username, mode bitmask encoded as a decimal string by the
// wire format, unused, realname.
type UserDetails struct {
	User     string
	ModeMask string
	Unused   string
	RealName string
}

// Command is the single tagged union covering every command variant
// named in spec §3. Only the fields relevant to Kind are meaningful;
// constructors below are the only sanctioned way to build a populated
// Command so arity/validation is total, per spec §4.6.
type Command struct {
	Kind CommandKind

	// NICK, MODEGET, MODE target, KILL target
	Nick Nickname

	// USER
	User UserDetails

	// ISON, WHOIS masks
	Nicks []Nickname

	// QUIT message, KILL comment, PRIVMSG/NOTICE text
	Text string
	HasText bool

	// PING/PONG
	Server1 string
	Server2 string
	HasServer2 bool

	// JOIN/PART/LIST/KICK channels
	Channels []ChannelName
	Keys     []string
	HasKeys  bool

	// LIST target
	Target     string
	HasTarget  bool

	// PRIVMSG/NOTICE recipients
	Recipients []Recipient

	// MODE add/remove
	ModeAdd    UserModeSet
	ModeRemove UserModeSet
	HasModeAdd    bool
	HasModeRemove bool

	// CHANNELMODE
	Channel          ChannelName
	ChanModeAdd      ChannelModeSet
	ChanModeAddParams    []string
	ChanModeRemove   ChannelModeSet
	ChanModeRemoveParams []string
	HasChanModeAdd    bool
	HasChanModeRemove bool

	// WHOIS server
	WhoisServer    string
	HasWhoisServer bool

	// WHO
	WhoMask    string
	HasWhoMask bool
	OpsOnly    bool

	// KICK
	Users    []Nickname
	Comments []string

	// CAP
	CapSub CapSub
	CapIDs []string

	// NUMERIC / OTHER_NUMERIC
	Code uint16

	// OTHER_COMMAND / NUMERIC / OTHER_NUMERIC
	Name string
	Args []string

	// DCC/SDCC
	DCCNick     string
	DCCHost     string
	DCCPort     uint16
	DCCFilename string
	DCCSize     uint64
	DCCOffset   uint64
}

// NewNick builds a NICK variant.
func NewNick(nick Nickname) Command {
	return Command{Kind: KindNick, Nick: nick}
}

// NewUser builds a USER variant.
func NewUser(details UserDetails) Command {
	return Command{Kind: KindUser, User: details}
}

// NewIson builds an ISON variant. Requires at least one nick.
func NewIson(nicks []Nickname) (Command, error) {
	if len(nicks) == 0 {
		return Command{}, &BadArgumentCountError{Command: CmdIson, Got: 0, Want: "at least 1"}
	}
	return Command{Kind: KindIson, Nicks: nicks}, nil
}

// NewQuit builds a QUIT variant; msg is optional.
func NewQuit(msg string, has bool) Command {
	return Command{Kind: KindQuit, Text: msg, HasText: has}
}

// NewPing builds a PING variant; s2 is optional.
func NewPing(s1, s2 string, hasS2 bool) Command {
	return Command{Kind: KindPing, Server1: s1, Server2: s2, HasServer2: hasS2}
}

// NewPong builds a PONG variant; s2 is optional.
func NewPong(s1, s2 string, hasS2 bool) Command {
	return Command{Kind: KindPong, Server1: s1, Server2: s2, HasServer2: hasS2}
}

// NewJoin builds a JOIN variant. Requires at least one channel; an
// empty channels list is a BadArgumentCountError, not JOIN0. Use
// NewJoin0 for the "leave all channels" form.
func NewJoin(channels []ChannelName, keys []string, hasKeys bool) (Command, error) {
	if len(channels) == 0 {
		return Command{}, &BadArgumentCountError{Command: CmdJoin, Got: 0, Want: "at least 1"}
	}
	return Command{Kind: KindJoin, Channels: channels, Keys: keys, HasKeys: hasKeys}, nil
}

// NewJoin0 builds the JOIN0 variant: "JOIN 0" means leave every
// channel the caller is on.
func NewJoin0() Command {
	return Command{Kind: KindJoin0}
}

// NewPart builds a PART variant. Requires at least one channel.
func NewPart(channels []ChannelName) (Command, error) {
	if len(channels) == 0 {
		return Command{}, &BadArgumentCountError{Command: CmdPart, Got: 0, Want: "at least 1"}
	}
	return Command{Kind: KindPart, Channels: channels}, nil
}

// NewList builds a LIST variant; channels and target are both optional.
func NewList(channels []ChannelName, target string, hasTarget bool) Command {
	return Command{Kind: KindList, Channels: channels, Target: target, HasTarget: hasTarget}
}

// NewPrivMsg builds a PRIVMSG variant. Requires at least one recipient.
func NewPrivMsg(recipients []Recipient, text string) (Command, error) {
	if len(recipients) == 0 {
		return Command{}, &BadArgumentCountError{Command: CmdPrivMsg, Got: 0, Want: "at least 1"}
	}
	return Command{Kind: KindPrivMsg, Recipients: recipients, Text: text, HasText: true}, nil
}

// NewNotice builds a NOTICE variant. Requires at least one recipient.
func NewNotice(recipients []Recipient, text string) (Command, error) {
	if len(recipients) == 0 {
		return Command{}, &BadArgumentCountError{Command: CmdNotice, Got: 0, Want: "at least 1"}
	}
	return Command{Kind: KindNotice, Recipients: recipients, Text: text, HasText: true}, nil
}

// NewModeGet builds a MODEGET variant: a user-mode query with no
// add/remove sets.
func NewModeGet(nick Nickname) Command {
	return Command{Kind: KindModeGet, Nick: nick}
}

// NewMode builds a MODE variant carrying add and/or remove sets.
func NewMode(nick Nickname, add UserModeSet, hasAdd bool, remove UserModeSet, hasRemove bool) Command {
	return Command{
		Kind: KindMode, Nick: nick,
		ModeAdd: add, HasModeAdd: hasAdd,
		ModeRemove: remove, HasModeRemove: hasRemove,
	}
}

// NewChannelModeGet builds a CHANNELMODE_GET variant.
func NewChannelModeGet(channel ChannelName) Command {
	return Command{Kind: KindChannelModeGet, Channel: channel}
}

// NewChannelModeGetBanmask builds a CHANNELMODE_GET_BANMASK variant,
// the `MODE #chan b` query form.
func NewChannelModeGetBanmask(channel ChannelName) Command {
	return Command{Kind: KindChannelModeGetBanmask, Channel: channel}
}

// NewChannelMode builds a CHANNELMODE variant carrying add/remove
// sets and their associated parameters (limits, keys, ban masks,
// nicks), per the ISUPPORT CHANMODES convention.
func NewChannelMode(
	channel ChannelName,
	add ChannelModeSet, addParams []string, hasAdd bool,
	remove ChannelModeSet, removeParams []string, hasRemove bool,
) Command {
	return Command{
		Kind: KindChannelMode, Channel: channel,
		ChanModeAdd: add, ChanModeAddParams: addParams, HasChanModeAdd: hasAdd,
		ChanModeRemove: remove, ChanModeRemoveParams: removeParams, HasChanModeRemove: hasRemove,
	}
}

// NewWhois builds a WHOIS variant. Requires at least one mask.
func NewWhois(server string, hasServer bool, masks []Nickname) (Command, error) {
	if len(masks) == 0 {
		return Command{}, &BadArgumentCountError{Command: CmdWhois, Got: 0, Want: "at least 1"}
	}
	return Command{Kind: KindWhois, WhoisServer: server, HasWhoisServer: hasServer, Nicks: masks}, nil
}

// NewWho builds a WHO variant; mask is optional.
func NewWho(mask string, hasMask bool, opsOnly bool) Command {
	return Command{Kind: KindWho, WhoMask: mask, HasWhoMask: hasMask, OpsOnly: opsOnly}
}

// NewKick builds a KICK variant. channels must be length 1 or equal
// in length to users, per RFC 2812's KICK multi-target grammar.
func NewKick(channels []ChannelName, users []Nickname, comments []string) (Command, error) {
	if len(channels) == 0 || len(users) == 0 {
		return Command{}, &BadArgumentCountError{Command: CmdKick, Got: 0, Want: "at least 1 channel and 1 user"}
	}
	if len(channels) != 1 && len(channels) != len(users) {
		return Command{}, &BadArgumentCountError{
			Command: CmdKick, Got: len(channels),
			Want: "1 or len(users)",
		}
	}
	return Command{Kind: KindKick, Channels: channels, Users: users, Comments: comments}, nil
}

// NewKill builds a KILL variant.
func NewKill(nick Nickname, comment string) Command {
	return Command{Kind: KindKill, Nick: nick, Text: comment, HasText: true}
}

// NewCap builds a CAP variant.
func NewCap(sub CapSub, capIDs []string) Command {
	return Command{Kind: KindCap, CapSub: sub, CapIDs: capIDs}
}

// NewNumeric builds a NUMERIC variant for a recognized reply code.
func NewNumeric(code uint16, args []string) Command {
	return Command{Kind: KindNumeric, Code: code, Args: args}
}

// NewOtherNumeric builds an OTHER_NUMERIC variant for an unrecognized
// 3-digit code.
func NewOtherNumeric(code uint16, args []string) Command {
	return Command{Kind: KindOtherNumeric, Code: code, Args: args}
}

// NewOtherCommand builds an OTHER_COMMAND variant for an unrecognized
// command name.
func NewOtherCommand(name string, args []string) Command {
	return Command{Kind: KindOtherCommand, Name: name, Args: args}
}

// NewDCCChat builds a DCC_CHAT variant.
func NewDCCChat(nick, host string, port uint16) Command {
	return Command{Kind: KindDCCChat, DCCNick: nick, DCCHost: host, DCCPort: port}
}

// NewDCCSend builds a DCC_SEND variant.
func NewDCCSend(nick, filename string, size uint64, host string, port uint16) Command {
	return Command{
		Kind: KindDCCSend, DCCNick: nick, DCCFilename: filename,
		DCCSize: size, DCCHost: host, DCCPort: port,
	}
}

// NewDCCResume builds a DCC_RESUME variant.
func NewDCCResume(nick, filename string, size uint64, host string, port uint16, offset uint64) Command {
	return Command{
		Kind: KindDCCResume, DCCNick: nick, DCCFilename: filename,
		DCCSize: size, DCCHost: host, DCCPort: port, DCCOffset: offset,
	}
}

// NewSDCCChat builds an SDCC_CHAT variant, the TLS-secured counterpart
// of DCC_CHAT.
func NewSDCCChat(nick, host string, port uint16) Command {
	return Command{Kind: KindSDCCChat, DCCNick: nick, DCCHost: host, DCCPort: port}
}

// NewSDCCSend builds an SDCC_SEND variant.
func NewSDCCSend(nick, filename string, size uint64, host string, port uint16) Command {
	return Command{
		Kind: KindSDCCSend, DCCNick: nick, DCCFilename: filename,
		DCCSize: size, DCCHost: host, DCCPort: port,
	}
}

// NewSDCCResume builds an SDCC_RESUME variant.
func NewSDCCResume(nick, filename string, size uint64, host string, port uint16, offset uint64) Command {
	return Command{
		Kind: KindSDCCResume, DCCNick: nick, DCCFilename: filename,
		DCCSize: size, DCCHost: host, DCCPort: port, DCCOffset: offset,
	}
}

// fragmentablePayload returns the payload slot that the Fragmenter/
// Reassembler operate on for this command, and whether this Kind
// carries one at all, per spec §4.4 ("only PRIVMSG, NOTICE, QUIT,
// OTHER_COMMAND, OTHER_NUMERIC carry fragmentable payload text").
func (c Command) fragmentablePayload() (string, bool) {
	switch c.Kind {
	case KindPrivMsg, KindNotice:
		return c.Text, true
	case KindQuit:
		return c.Text, c.HasText
	case KindOtherCommand, KindOtherNumeric:
		if len(c.Args) == 0 {
			return "", false
		}
		return c.Args[len(c.Args)-1], true
	default:
		return "", false
	}
}

// SplitOtherArgs re-splits the joined payload of a reassembled
// OTHER_COMMAND/OTHER_NUMERIC fragment back into its original
// comma-separated args, the inverse of the pre-join the Fragmenter
// contract requires of callers for those variants, per spec §6/§9.
func SplitOtherArgs(joined string) []string {
	return strings.Split(joined, ",")
}

// withFragmentPayload returns a copy of c with its fragmentable slot
// replaced by chunk, per spec §4.4's "chunk substituted as payload".
func (c Command) withFragmentPayload(chunk string) Command {
	switch c.Kind {
	case KindPrivMsg, KindNotice:
		c.Text = chunk
	case KindQuit:
		c.Text = chunk
		c.HasText = true
	case KindOtherCommand, KindOtherNumeric:
		if len(c.Args) == 0 {
			c.Args = []string{chunk}
		} else {
			c.Args = append(append([]string(nil), c.Args[:len(c.Args)-1]...), chunk)
		}
	}
	return c
}
