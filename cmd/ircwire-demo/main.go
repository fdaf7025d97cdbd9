/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

// Command ircwire-demo feeds a handful of text IRC lines and one
// oversized PRIVMSG through the engine and prints what comes out the
// other end. It owns no socket: ircwire is a codec, not a server.
package main

import (
	"fmt"
	"strings"

	"github.com/btnmasher/ircwire"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)

	engine := ircwire.NewEngine(
		ircwire.WithLogger(logger),
		ircwire.WithDefaultLogFormatter(),
		ircwire.WithFragmentChunkSize(64),
	)
	defer engine.Close()
	engine.Warmup(16)

	fmt.Println("ISUPPORT:", engine.Config().SupportTokens())

	lines := []string{
		"NICK alice",
		"USER alice 0 * :Alice Liddell",
		":alice!alice@localhost PRIVMSG #general :Hello, world!",
	}

	for _, line := range lines {
		decode(engine, []byte(line+"\r\n"))
	}

	recipients := []ircwire.Recipient{{Kind: ircwire.RecipientAll}}
	cmd, err := ircwire.NewPrivMsg(recipients, "")
	if err != nil {
		logger.WithError(err).Fatal("building command")
	}

	payload := strings.Repeat("the rabbit hole goes deeper than it looks. ", 10)
	wire := engine.Emit(cmd, payload, nil)

	fmt.Println("--- fragmented wire bytes ---")
	decode(engine, wire)
}

func decode(engine *ircwire.Engine, buf []byte) {
	for len(buf) > 0 {
		msg, frame, consumed, err := engine.DecodeNext(buf)
		if err != nil {
			fmt.Println("frame error:", err)
			return
		}
		if consumed == 0 {
			fmt.Println("need more data")
			return
		}
		buf = buf[consumed:]

		if frame.Kind == ircwire.FrameBinary {
			fmt.Println("binary dcc frame, kind:", frame.DCC.Kind)
			continue
		}
		if msg == nil {
			continue
		}

		cmd, complete, err := engine.Ingest(msg)
		if err != nil {
			fmt.Println("ingest error:", err)
			continue
		}
		if !complete {
			continue
		}

		fmt.Printf("%s: %+v\n", frame.Line, cmd)
	}
}
