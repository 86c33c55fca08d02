// Package nexus provides a client for the Sonatype Nexus Repository 3
// search API.
//
// # Overview
//
// [Client.Search] calls GET /service/rest/v1/search on one repository,
// either as a keyword search (q) or as an exact group+name lookup, and
// follows continuationToken pages up to a configurable bound.
//
// # Authentication
//
// When [Config.Username] and [Config.Password] are both set, every request
// carries an HTTP basic auth header.
//
// # Caching
//
// Search results are cached per repository and query for the TTL passed to
// [NewClient]. Pass refresh=true to bypass the cache.
package nexus
