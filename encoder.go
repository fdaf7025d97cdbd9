/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package ircwire

import (
	"strconv"
	"strings"

	"github.com/btnmasher/util"
)

// bufpool recycles the strings.Builder-backed buffers used by Render,
// grounded on the teacher's BufferPool usage for per-line output
// buffers.
var bufpool = util.NewBufferPool(256)

// Encode converts a Command back into its tokenized Message form, the
// inverse of Parser.Dispatch. The returned Message carries no tags or
// source; callers that need a source-qualified or tagged line set
// those fields on the result before calling Render.
func Encode(cmd Command) *Message {
	msg := &Message{}

	switch cmd.Kind {
	case KindNick:
		msg.Raw = CmdNick
		msg.Params = []string{cmd.Nick.String()}

	case KindUser:
		msg.Raw = CmdUser
		msg.Params = []string{cmd.User.User, cmd.User.ModeMask, cmd.User.Unused}
		msg.Trailing, msg.HasTrailing = cmd.User.RealName, true

	case KindIson:
		msg.Raw = CmdIson
		msg.Params = []string{joinNicks(cmd.Nicks)}

	case KindQuit:
		msg.Raw = CmdQuit
		if cmd.HasText {
			msg.Trailing, msg.HasTrailing = cmd.Text, true
			msg.ForceTrailingColon = true
		}

	case KindPing:
		msg.Raw = CmdPing
		msg.Params = []string{cmd.Server1}
		if cmd.HasServer2 {
			msg.Params = append(msg.Params, cmd.Server2)
		}

	case KindPong:
		msg.Raw = CmdPong
		msg.Params = []string{cmd.Server1}
		if cmd.HasServer2 {
			msg.Params = append(msg.Params, cmd.Server2)
		}

	case KindJoin0:
		msg.Raw = CmdJoin
		msg.Params = []string{"0"}

	case KindJoin:
		msg.Raw = CmdJoin
		msg.Params = []string{JoinChannelNames(cmd.Channels)}
		if cmd.HasKeys {
			msg.Params = append(msg.Params, strings.Join(cmd.Keys, ","))
		}

	case KindPart:
		msg.Raw = CmdPart
		msg.Params = []string{JoinChannelNames(cmd.Channels)}

	case KindList:
		msg.Raw = CmdList
		if len(cmd.Channels) > 0 {
			msg.Params = append(msg.Params, JoinChannelNames(cmd.Channels))
		}
		if cmd.HasTarget {
			if len(msg.Params) == 0 {
				msg.Params = append(msg.Params, "")
			}
			msg.Params = append(msg.Params, cmd.Target)
		}

	case KindPrivMsg:
		msg.Raw = CmdPrivMsg
		msg.Params = []string{JoinRecipients(cmd.Recipients)}
		msg.Trailing, msg.HasTrailing, msg.ForceTrailingColon = cmd.Text, true, true

	case KindNotice:
		msg.Raw = CmdNotice
		msg.Params = []string{JoinRecipients(cmd.Recipients)}
		msg.Trailing, msg.HasTrailing, msg.ForceTrailingColon = cmd.Text, true, true

	case KindModeGet:
		msg.Raw = CmdMode
		msg.Params = []string{cmd.Nick.String()}

	case KindMode:
		msg.Raw = CmdMode
		msg.Params = []string{cmd.Nick.String(), renderUserModeDelta(cmd.ModeAdd, cmd.HasModeAdd, cmd.ModeRemove, cmd.HasModeRemove)}

	case KindChannelModeGet:
		msg.Raw = CmdMode
		msg.Params = []string{cmd.Channel.String()}

	case KindChannelModeGetBanmask:
		msg.Raw = CmdMode
		msg.Params = []string{cmd.Channel.String(), "b"}

	case KindChannelMode:
		msg.Raw = CmdMode
		msg.Params = append([]string{cmd.Channel.String()}, renderChannelModeDelta(cmd)...)

	case KindWhois:
		msg.Raw = CmdWhois
		if cmd.HasWhoisServer {
			msg.Params = append(msg.Params, cmd.WhoisServer)
		}
		msg.Params = append(msg.Params, joinNicks(cmd.Nicks))

	case KindWho:
		msg.Raw = CmdWho
		if cmd.HasWhoMask {
			msg.Params = append(msg.Params, cmd.WhoMask)
		}
		if cmd.OpsOnly {
			msg.Params = append(msg.Params, "o")
		}

	case KindKick:
		msg.Raw = CmdKick
		msg.Params = []string{JoinChannelNames(cmd.Channels), joinNicks(cmd.Users)}
		if len(cmd.Comments) > 0 {
			msg.Trailing, msg.HasTrailing = strings.Join(cmd.Comments, ","), true
		}

	case KindKill:
		msg.Raw = CmdKill
		msg.Params = []string{cmd.Nick.String()}
		msg.Trailing, msg.HasTrailing, msg.ForceTrailingColon = cmd.Text, true, true

	case KindCap:
		msg.Raw = CmdCap
		msg.Params = []string{cmd.CapSub.String()}
		if len(cmd.CapIDs) > 0 {
			msg.Trailing, msg.HasTrailing = strings.Join(cmd.CapIDs, " "), true
		}

	case KindNumeric, KindOtherNumeric:
		msg.Raw = numericToken(cmd.Code)
		encodeArgs(msg, cmd.Args)

	case KindOtherCommand:
		msg.Raw = cmd.Name
		encodeArgs(msg, cmd.Args)

	case KindDCCChat, KindSDCCChat:
		msg.Raw = dccChatToken(cmd.Kind)
		msg.Trailing, msg.HasTrailing = dccChatText(cmd), true

	case KindDCCSend, KindSDCCSend:
		msg.Raw = dccSendToken(cmd.Kind)
		msg.Trailing, msg.HasTrailing = dccSendText(cmd), true

	case KindDCCResume, KindSDCCResume:
		msg.Raw = dccResumeToken(cmd.Kind)
		msg.Trailing, msg.HasTrailing = dccResumeText(cmd), true
	}

	return msg
}

// encodeArgs fills msg.Params/Trailing from a flat arg list the way
// OTHER_COMMAND/NUMERIC/OTHER_NUMERIC carry them: every arg is a
// middle parameter except the last, which is always stored as
// Trailing; Render colon-prefixes it only if it contains a space,
// begins with ':', or is empty.
func encodeArgs(msg *Message, args []string) {
	if len(args) == 0 {
		return
	}
	msg.Params = append([]string(nil), args[:len(args)-1]...)
	last := args[len(args)-1]
	msg.Trailing, msg.HasTrailing = last, true
}

func numericToken(code uint16) string {
	s := strconv.FormatUint(uint64(code), 10)
	for len(s) < 3 {
		s = "0" + s
	}
	return s
}

func joinNicks(nicks []Nickname) string {
	parts := make([]string, len(nicks))
	for i, n := range nicks {
		parts[i] = n.String()
	}
	return strings.Join(parts, ",")
}

func renderUserModeDelta(add UserModeSet, hasAdd bool, remove UserModeSet, hasRemove bool) string {
	var b strings.Builder
	if hasAdd {
		b.WriteByte('+')
		b.WriteString(add.String())
	}
	if hasRemove {
		b.WriteByte('-')
		b.WriteString(remove.String())
	}
	return b.String()
}

func renderChannelModeDelta(cmd Command) []string {
	var spec strings.Builder
	var params []string
	if cmd.HasChanModeAdd {
		spec.WriteByte('+')
		spec.WriteString(cmd.ChanModeAdd.String())
		params = append(params, cmd.ChanModeAddParams...)
	}
	if cmd.HasChanModeRemove {
		spec.WriteByte('-')
		spec.WriteString(cmd.ChanModeRemove.String())
		params = append(params, cmd.ChanModeRemoveParams...)
	}
	return append([]string{spec.String()}, params...)
}

// Render renders msg back to wire text, with no `\r\n` terminator.
// Order: tag block -> optional source -> command token -> space
// separated middles -> `:trailing` if present. The result is safe to
// write followed by "\r\n".
func (m *Message) Render() string {
	buf := bufpool.New()
	defer bufpool.Recycle(buf)

	if m.Tags != nil && m.Tags.Len() > 0 {
		buf.WriteString(renderTags(m.Tags))
	}
	if m.Source != nil {
		buf.WriteByte(':')
		buf.WriteString(m.Source.String())
		buf.WriteByte(' ')
	}
	buf.WriteString(m.Raw)
	for _, p := range m.Params {
		buf.WriteByte(' ')
		buf.WriteString(p)
	}
	if m.HasTrailing {
		buf.WriteByte(' ')
		if m.ForceTrailingColon || needsTrailingColon(m.Trailing) {
			buf.WriteByte(':')
		}
		buf.WriteString(m.Trailing)
	}

	return strings.TrimRight(buf.String(), " ")
}

// needsTrailingColon reports whether the trailing parameter must be
// colon-prefixed to round-trip: it contains a space, begins with ':',
// or is empty (an empty trailing is otherwise indistinguishable from
// "no trailing parameter" once rendered).
func needsTrailingColon(s string) bool {
	return s == "" || strings.ContainsRune(s, ' ') || strings.HasPrefix(s, ":")
}

func dccChatToken(kind CommandKind) string {
	if kind == KindSDCCChat {
		return CmdSDCCChat
	}
	return CmdDCCChat
}

func dccSendToken(kind CommandKind) string {
	if kind == KindSDCCSend {
		return CmdSDCCSend
	}
	return CmdDCCSend
}

func dccResumeToken(kind CommandKind) string {
	if kind == KindSDCCResume {
		return CmdSDCCResume
	}
	return CmdDCCResume
}

func dccChatText(cmd Command) string {
	return "\x01DCC " + dccChatToken(cmd.Kind) + " chat " +
		cmd.DCCHost + " " + strconv.FormatUint(uint64(cmd.DCCPort), 10) + "\x01"
}

func dccSendText(cmd Command) string {
	return "\x01DCC " + dccSendToken(cmd.Kind) + " " + cmd.DCCFilename + " " +
		cmd.DCCHost + " " + strconv.FormatUint(uint64(cmd.DCCPort), 10) + " " +
		strconv.FormatUint(cmd.DCCSize, 10) + "\x01"
}

func dccResumeText(cmd Command) string {
	return "\x01DCC " + dccResumeToken(cmd.Kind) + " " + cmd.DCCFilename + " " +
		strconv.FormatUint(uint64(cmd.DCCPort), 10) + " " +
		strconv.FormatUint(cmd.DCCOffset, 10) + "\x01"
}
