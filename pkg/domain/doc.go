/*
Package domain contains the core data model of the weather bot.

It defines the conversation states, the context the client carries between turns,
the turn request/result contracts and the weather snapshot. This package is kept pure
and free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - ConversationState: the client-held state (current step and accumulated Context).
  - TransitionRequest / TransitionResult: the input and output of a single turn.
  - WeatherSnapshot: the provider-independent weather reading attached to a Context.
  - LookupError: the single failure type of a weather lookup.
*/
package domain
