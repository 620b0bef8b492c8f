package middleware

import "github.com/aretw0/weatherbot/pkg/ports"

// Middleware allows wrapping a WeatherProvider to add behavior.
type Middleware func(ports.WeatherProvider) ports.WeatherProvider

// Chain applies middlewares so that the first one is the outermost.
func Chain(p ports.WeatherProvider, mws ...Middleware) ports.WeatherProvider {
	for i := len(mws) - 1; i >= 0; i-- {
		p = mws[i](p)
	}
	return p
}
