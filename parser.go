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
)

// Parse tokenizes a single text line (no `\r\n` terminator) into a
// Message, per spec §4.1's grammar:
//
//	line      := [ '@' tags ' ' ] [ ':' source ' ' ] command (' ' params)?
//	tags      := tag (';' tag)*
//	tag       := key ('=' value)?
//	source    := nick-or-servername [ '!' user ] [ '@' host ]
//	params    := middle (' ' middle)* [ ' :' trailing ]
//
// Parse performs no command-specific validation; that is Dispatch's
// job.
func Parse(line string) (*Message, error) {
	if strings.TrimSpace(line) == "" {
		return nil, ErrEmptyLine
	}

	msg := &Message{}
	rest := line

	if strings.HasPrefix(rest, "@") {
		sp := strings.IndexByte(rest, ' ')
		if sp < 0 {
			return nil, &ParseFailureError{Reason: "tag block with no following command"}
		}
		tags, err := parseTags(rest[1:sp])
		if err != nil {
			return nil, err
		}
		msg.Tags = tags
		rest = strings.TrimLeft(rest[sp+1:], " ")
	}

	if strings.HasPrefix(rest, ":") {
		sp := strings.IndexByte(rest, ' ')
		if sp < 0 {
			return nil, &ParseFailureError{Reason: "source with no following command"}
		}
		source, err := ParseUserID(rest[1:sp])
		if err != nil {
			return nil, err
		}
		msg.Source = &source
		rest = strings.TrimLeft(rest[sp+1:], " ")
	}

	sp := strings.IndexByte(rest, ' ')
	var cmdTok string
	if sp < 0 {
		cmdTok, rest = rest, ""
	} else {
		cmdTok, rest = rest[:sp], strings.TrimLeft(rest[sp+1:], " ")
	}
	if cmdTok == "" {
		return nil, &ParseFailureError{Reason: "missing command token"}
	}
	msg.Raw = normalizeCommandToken(cmdTok)

	params, trailing, hasTrailing, err := parseParams(rest)
	if err != nil {
		return nil, err
	}
	msg.Params = params
	msg.Trailing = trailing
	msg.HasTrailing = hasTrailing

	return msg, nil
}

// normalizeCommandToken uppercases command names but leaves a 3-digit
// numeric token as-is, since numerics have no letter case.
func normalizeCommandToken(tok string) string {
	if isNumericToken(tok) {
		return tok
	}
	return strings.ToUpper(tok)
}

func isNumericToken(tok string) bool {
	if len(tok) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if tok[i] < '0' || tok[i] > '9' {
			return false
		}
	}
	return true
}

// parseParams splits the portion of a line after the command token
// into middle parameters and an optional trailing parameter. A
// middle parameter may not begin with ':' or contain a space; the
// first parameter beginning with ':', or the parameter that would be
// the 15th overall, starts the trailing and runs to end-of-line.
func parseParams(rest string) (params []string, trailing string, hasTrailing bool, err error) {
	for rest != "" {
		if strings.HasPrefix(rest, ":") {
			trailing = rest[1:]
			hasTrailing = true
			return params, trailing, hasTrailing, nil
		}

		if len(params) == MaxMsgParams-1 {
			trailing = rest
			hasTrailing = true
			return params, trailing, hasTrailing, nil
		}

		sp := strings.IndexByte(rest, ' ')
		var tok string
		if sp < 0 {
			tok, rest = rest, ""
		} else {
			tok, rest = rest[:sp], strings.TrimLeft(rest[sp+1:], " ")
		}
		params = append(params, tok)

		if len(params) > MaxMsgParams {
			return nil, "", false, &ParseFailureError{Reason: "too many parameters"}
		}
	}
	return params, trailing, hasTrailing, nil
}

// Parser dispatches tokenized Messages into typed Command variants,
// using rules to validate nicknames encountered along the way.
type Parser struct {
	rules NickRules
}

// NewParser constructs a Parser bound to the given nickname rules.
func NewParser(rules NickRules) *Parser {
	return &Parser{rules: rules}
}

// Dispatch routes a tokenized Message to its typed Command variant,
// enforcing arity and per-field validation, per spec §4.1.
func (p *Parser) Dispatch(msg *Message) (Command, error) {
	if isNumericToken(msg.Raw) {
		code, _ := strconv.ParseUint(msg.Raw, 10, 16)
		args := msg.AllParams()
		if IsKnownNumeric(uint16(code)) {
			return NewNumeric(uint16(code), args), nil
		}
		return NewOtherNumeric(uint16(code), args), nil
	}

	args := msg.AllParams()

	switch msg.Raw {
	case CmdNick:
		if len(args) != 1 {
			return Command{}, &BadArgumentCountError{Command: CmdNick, Got: len(args), Want: "1"}
		}
		nick, err := ParseNickname(args[0], p.rules)
		if err != nil {
			return Command{}, err
		}
		return NewNick(nick), nil

	case CmdUser:
		if len(args) != 4 {
			return Command{}, &BadArgumentCountError{Command: CmdUser, Got: len(args), Want: "4"}
		}
		return NewUser(UserDetails{User: args[0], ModeMask: args[1], Unused: args[2], RealName: args[3]}), nil

	case CmdIson:
		nicks, err := parseNickArgs(args, p.rules)
		if err != nil {
			return Command{}, err
		}
		return NewIson(nicks)

	case CmdQuit:
		return NewQuit(joinOptional(args), len(args) > 0), nil

	case CmdPing:
		if len(args) < 1 || len(args) > 2 {
			return Command{}, &BadArgumentCountError{Command: CmdPing, Got: len(args), Want: "1 or 2"}
		}
		s2 := ""
		if len(args) == 2 {
			s2 = args[1]
		}
		return NewPing(args[0], s2, len(args) == 2), nil

	case CmdPong:
		if len(args) < 1 || len(args) > 2 {
			return Command{}, &BadArgumentCountError{Command: CmdPong, Got: len(args), Want: "1 or 2"}
		}
		s2 := ""
		if len(args) == 2 {
			s2 = args[1]
		}
		return NewPong(args[0], s2, len(args) == 2), nil

	case CmdJoin:
		if len(args) < 1 {
			return Command{}, &BadArgumentCountError{Command: CmdJoin, Got: 0, Want: "at least 1"}
		}
		if args[0] == "0" {
			return NewJoin0(), nil
		}
		channels, err := ParseChannelList(args[0])
		if err != nil {
			return Command{}, err
		}
		var keys []string
		hasKeys := len(args) > 1
		if hasKeys {
			keys = strings.Split(args[1], ",")
		}
		return NewJoin(channels, keys, hasKeys)

	case CmdPart:
		if len(args) < 1 {
			return Command{}, &BadArgumentCountError{Command: CmdPart, Got: 0, Want: "at least 1"}
		}
		channels, err := ParseChannelList(args[0])
		if err != nil {
			return Command{}, err
		}
		return NewPart(channels)

	case CmdList:
		var channels []ChannelName
		var err error
		if len(args) > 0 && args[0] != "" {
			channels, err = ParseChannelList(args[0])
			if err != nil {
				return Command{}, err
			}
		}
		target := ""
		hasTarget := len(args) > 1
		if hasTarget {
			target = args[1]
		}
		return NewList(channels, target, hasTarget), nil

	case CmdPrivMsg:
		if len(args) < 2 {
			return Command{}, &BadArgumentCountError{Command: CmdPrivMsg, Got: len(args), Want: "2"}
		}
		recipients, err := ParseRecipientList(args[0], p.rules)
		if err != nil {
			return Command{}, err
		}
		return NewPrivMsg(recipients, args[1])

	case CmdNotice:
		if len(args) < 2 {
			return Command{}, &BadArgumentCountError{Command: CmdNotice, Got: len(args), Want: "2"}
		}
		recipients, err := ParseRecipientList(args[0], p.rules)
		if err != nil {
			return Command{}, err
		}
		return NewNotice(recipients, args[1])

	case CmdMode:
		return p.dispatchMode(args)

	case CmdWhois:
		if len(args) < 1 {
			return Command{}, &BadArgumentCountError{Command: CmdWhois, Got: 0, Want: "at least 1"}
		}
		server, hasServer, masksArg := "", false, args[0]
		if len(args) >= 2 {
			server, hasServer, masksArg = args[0], true, args[1]
		}
		masks, err := parseNickArgsRaw(strings.Split(masksArg, ","), p.rules)
		if err != nil {
			return Command{}, err
		}
		return NewWhois(server, hasServer, masks)

	case CmdWho:
		mask, hasMask := "", len(args) > 0
		if hasMask {
			mask = args[0]
		}
		opsOnly := len(args) > 1 && args[1] == "o"
		return NewWho(mask, hasMask, opsOnly), nil

	case CmdKick:
		if len(args) < 2 {
			return Command{}, &BadArgumentCountError{Command: CmdKick, Got: len(args), Want: "at least 2"}
		}
		channels, err := ParseChannelList(args[0])
		if err != nil {
			return Command{}, err
		}
		users, err := parseNickArgsRaw(strings.Split(args[1], ","), p.rules)
		if err != nil {
			return Command{}, err
		}
		var comments []string
		if len(args) > 2 {
			comments = strings.Split(args[2], ",")
		}
		return NewKick(channels, users, comments)

	case CmdKill:
		if len(args) < 1 {
			return Command{}, &BadArgumentCountError{Command: CmdKill, Got: 0, Want: "at least 1"}
		}
		nick, err := ParseNickname(args[0], p.rules)
		if err != nil {
			return Command{}, err
		}
		return NewKill(nick, joinOptional(args[1:])), nil

	case CmdCap:
		if len(args) < 1 {
			return Command{}, &BadArgumentCountError{Command: CmdCap, Got: 0, Want: "at least 1"}
		}
		sub, err := ParseCapSub(args[0])
		if err != nil {
			return Command{}, err
		}
		var capIDs []string
		if len(args) > 1 {
			capIDs = strings.Fields(args[1])
		}
		return NewCap(sub, capIDs), nil

	default:
		return NewOtherCommand(msg.Raw, args), nil
	}
}

func (p *Parser) dispatchMode(args []string) (Command, error) {
	if len(args) < 1 {
		return Command{}, &BadArgumentCountError{Command: CmdMode, Got: 0, Want: "at least 1"}
	}

	target := args[0]
	if target != "" && strings.ContainsRune(channelPrefixes, rune(target[0])) {
		channel, err := ParseChannelName(target)
		if err != nil {
			return Command{}, err
		}
		if len(args) == 1 {
			return NewChannelModeGet(channel), nil
		}
		if args[1] == "b" {
			return NewChannelModeGetBanmask(channel), nil
		}
		add, addParams, hasAdd, remove, removeParams, hasRemove, err := parseChannelModeString(args[1], args[2:])
		if err != nil {
			return Command{}, err
		}
		return NewChannelMode(channel, add, addParams, hasAdd, remove, removeParams, hasRemove), nil
	}

	nick, err := ParseNickname(target, p.rules)
	if err != nil {
		return Command{}, err
	}
	if len(args) == 1 {
		return NewModeGet(nick), nil
	}
	add, hasAdd, remove, hasRemove, err := parseUserModeString(args[1])
	if err != nil {
		return Command{}, err
	}
	return NewMode(nick, add, hasAdd, remove, hasRemove), nil
}

// parseUserModeString decodes a `+iw-o`-style mode delta string.
func parseUserModeString(spec string) (add, remove UserModeSet, hasAdd, hasRemove bool, err error) {
	sign := byte('+')
	for i := 0; i < len(spec); i++ {
		c := spec[i]
		if c == '+' || c == '-' {
			sign = c
			continue
		}
		bit, ok := userModeBitForLetter(c)
		if !ok {
			return 0, 0, false, false, ErrUnknownMode
		}
		if sign == '+' {
			add |= bit
			hasAdd = true
		} else {
			remove |= bit
			hasRemove = true
		}
	}
	return add, remove, hasAdd, hasRemove, nil
}

// parseChannelModeString decodes a `+o-l`-style channel mode delta
// string, consuming positional parameters for modes that require one.
func parseChannelModeString(spec string, rawParams []string) (
	add ChannelModeSet, addParams []string, hasAdd bool,
	remove ChannelModeSet, removeParams []string, hasRemove bool,
	err error,
) {
	sign := byte('+')
	paramIdx := 0
	nextParam := func() string {
		if paramIdx >= len(rawParams) {
			return ""
		}
		v := rawParams[paramIdx]
		paramIdx++
		return v
	}

	for i := 0; i < len(spec); i++ {
		c := spec[i]
		if c == '+' || c == '-' {
			sign = c
			continue
		}
		bit, ok := channelModeBitForLetter(c)
		if !ok {
			return 0, nil, false, 0, nil, false, ErrUnknownMode
		}
		if sign == '+' {
			add |= bit
			hasAdd = true
			if ModeTakesParameter(c) {
				addParams = append(addParams, nextParam())
			}
		} else {
			remove |= bit
			hasRemove = true
			if ModeTakesParameter(c) {
				removeParams = append(removeParams, nextParam())
			}
		}
	}
	return add, addParams, hasAdd, remove, removeParams, hasRemove, nil
}

func parseNickArgs(args []string, rules NickRules) ([]Nickname, error) {
	if len(args) == 0 {
		return nil, &BadArgumentCountError{Command: "nick-list", Got: 0, Want: "at least 1"}
	}
	return parseNickArgsRaw(strings.Split(args[0], ","), rules)
}

func parseNickArgsRaw(tokens []string, rules NickRules) ([]Nickname, error) {
	nicks := make([]Nickname, len(tokens))
	for i, tok := range tokens {
		n, err := ParseNickname(tok, rules)
		if err != nil {
			return nil, err
		}
		nicks[i] = n
	}
	return nicks, nil
}

func joinOptional(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return strings.Join(args, " ")
}
