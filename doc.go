/*
Package weatherbot is a turn-based conversational bot that asks for a city and replies
with its current weather.

Its core is a stateless dialog transition engine: given an opaque, client-held
conversation state and a new user input, it decides the next state, the text to show
and whether to look up the weather. The engine keeps nothing between calls, so every
turn is reproducible from its request alone and any number of servers can answer
the same conversation.

# Conversation

	GREETING -> ASK_CITY -> CONFIRM_CITY -(sim)-> SHOW_RESULTS -(não)-> END -> GREETING
	                ^            |(não)               |(sim)
	                +------------+--------------------+

A failed lookup still lands on SHOW_RESULTS, with a reply asking whether to try again.

# Usage

	bot := weatherbot.New(weatherbot.WithAPIKey(os.Getenv("OPENWEATHER_KEY")))

	var state *domain.ConversationState // nil starts a new conversation
	res, err := bot.Transition(ctx, domain.TransitionRequest{
		SessionID: "session-123",
		Input:     "Lisboa",
		State:     state,
	})
	if err != nil {
		log.Fatal(err) // only defects surface as errors
	}
	fmt.Println(res.Reply)
	state = res.NextConversationState() // send it back on the next turn

The HTTP, MCP and terminal adapters under pkg/ and cmd/ are thin shells around this call.
*/
package weatherbot
