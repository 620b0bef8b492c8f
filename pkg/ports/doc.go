/*
Package ports defines the driven ports (interfaces) of the weather bot.

These interfaces decouple the dialog engine from external implementations, allowing
it to work with different weather providers, caches and metrics backends.

# Key Interfaces

  - DialogEngine: the stateless turn function consumed by transports.
  - WeatherProvider: resolves a city into a domain.WeatherSnapshot.
  - WeatherCache: short-lived snapshot storage (memory or Redis).
  - Metrics: process-wide counters injected into the engine and the transport.
*/
package ports
