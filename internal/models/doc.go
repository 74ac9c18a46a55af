// Package models defines the movie data returned by the provider and the account entities persisted by the server.
//
// The package contains two categories of types:
//
// 1. Movie data: read-only values decoded from the upstream JSON
//   - [Movie] : Summary shape used by lists, search results and favorites
//   - [MovieDetail] : Movie enriched with runtime, budget, companies, languages
//   - [Credits], [CastMember], [CrewMember] : Cast and crew
//   - [Video] : Trailers and teasers
//   - [Genre] : Genre id/name pairs
//   - [Page] : One page of movie results with page/total_pages metadata
//
// 2. Persistent Entities: database-backed account state owned by the proxy server
//   - [User] : Username and password hash
//   - [Session] : Opaque token bound to a user with an expiry
//
// A Movie's identity is its ID. Every other field may differ between fetches (a detail fetch enriches a summary).
package models
