package client

import (
	"bufio"
	"context"
	"strings"

	"github.com/oshokin/sos-button/internal/chat"
)

// Chat runs an interactive conversation, one user message per input line,
// until the input ends or the user types /quit.
func (a *App) Chat(ctx context.Context) error {
	conversation := chat.NewConversation(a.chat)

	a.printf("RakshiniAI: %s\n", chat.Greeting)

	scanner := bufio.NewScanner(a.in)

	for {
		a.printf("> ")

		if !scanner.Scan() {
			a.println()
			return scanner.Err()
		}

		input := strings.TrimSpace(scanner.Text())

		switch input {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		}

		reply, err := conversation.Send(ctx, input)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			a.printf("Error: %s\n", err)

			continue
		}

		a.printf("RakshiniAI: %s\n", reply)
	}
}
