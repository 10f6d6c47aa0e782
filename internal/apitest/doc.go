// Package apitest runs an in-process fake forum API for tests.
//
// The server keeps users, forums, posts and comments in memory, issues a
// session cookie on login, counts calls per route and lets tests inject
// failures, hold requests open and expire sessions:
//
//	srv := apitest.New(t)
//	srv.Fail(http.MethodGet, "/api/forums", http.StatusInternalServerError, nil)
//	release := srv.Hold(http.MethodGet, "/api/profile")
//	...
//	release()
//	require.Equal(t, 1, srv.Calls(http.MethodGet, "/api/profile"))
package apitest
