// Package server implements the cinex proxy: username/password accounts with cookie sessions in front of the TMDB
// movie API, so clients never hold the API key.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] patterns ("GET /api/movies/{id}"), so method filtering,
// path values and 405 responses come from the standard mux.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple patterns and dispatch on [http.Request.Pattern].
//
//   - [AuthHandler] : POST /api/register, /api/login, /api/logout and GET /api/user
//   - [MovieHandler] : GET /api/movies/... and /api/genres, behind [RequireSession]
//
// # Sessions
//
// Login issues an opaque token in the HttpOnly, SameSite=Lax cookie named by [shared.SessionCookie]. Sessions live in
// sqlite with an expiry; [Server.Sweep] prunes expired rows. Login attempts are throttled per client IP.
//
// # Errors
//
// Every error body is {"message": "..."}. Upstream failures answer 500 with a "Failed to ..." message, unknown movies
// 404, bad parameters 400 and missing sessions 401.
package server
