// Package services defines the [Provider] interface for movie data and implements it for TMDB and the cinex proxy.
//
// # Provider Interface
//
// Discovery, detail loading and the CLI all depend on [Provider], so they work the same against TMDB directly or
// through the server.
//
// # TMDB Implementation
//
// [TMDBService] calls https://api.themoviedb.org/3. It authenticates with a v3 API key sent as a query parameter,
// or with a v4 read access token sent as a bearer token by an [oauth2.Transport]. Every request carries
// language=en-US; search excludes adult titles and discover defaults to popularity ordering.
//
// Only the server holds TMDB credentials.
//
// # Proxy Implementation
//
// [ProxyService] calls the cinex server's /api/movies and /api/genres routes through an [APIService], which attaches
// the session cookie issued at login. [AuthService] registers, logs in and out, and persists the session token in the
// client's local store so later runs resume it.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrNetwork] : Transport failure or non-2xx response
//   - [shared.ErrNotFound] : Movie id unknown upstream (404)
//   - [shared.ErrNotAuthenticated] : Missing or expired session (401)
//   - [shared.ErrValidation] : Request rejected before or by the server (400)
//
// No call is retried automatically.
package services
