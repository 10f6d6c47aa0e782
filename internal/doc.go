// Package internal implements the forum client: models, query definitions,
// lookups over cached collections, mutations with their cache maintenance,
// the protected-route entry flow and background polling.
//
// The root forumclient package re-exports this API.
package internal
