// Package gateway is the single HTTP path between the client and the forum API.
//
// A [Gateway] is configured once with the API base URL. It keeps a cookie jar
// so the server-held session cookie is sent on every request without callers
// touching it, tags each request with an X-Request-ID, and runs a fixed
// response pipeline:
//
//  1. every [ResponseHook] sees every response, success or failure;
//  2. non-2xx responses become an [*apperror.AppError] via apperror.FromResponse;
//  3. 2xx bodies are decoded as JSON into the caller's type. An empty body
//     leaves the zero value.
//
// Transport and decode failures are normalized with apperror.FromUnknown, so
// callers only ever see *apperror.AppError. Requests are never retried.
//
// # Usage
//
//	gw, err := gateway.New(cfg.BaseURL,
//	    gateway.WithLogger(log),
//	    gateway.WithResponseHook(guard.SessionExpiry(nav, "/login", log)),
//	)
//
//	forums, err := gateway.Get[[]models.Forum](ctx, gw, "api/forums", nil)
//
//	path := gateway.Path("api", "forums", slug, "posts")
//	post, err := gateway.Post[models.Post](ctx, gw, path, req)
//
// Paths are relative to the base URL; use [Path] to escape dynamic segments.
package gateway
