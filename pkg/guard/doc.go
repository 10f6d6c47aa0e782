// Package guard keeps the user's view of their session consistent with the
// server's. It implements two independent layers.
//
// The entry guard ([Entry]) runs before a protected screen is shown. It asks
// for the current user and turns the outcome into a [Decision]: allow, redirect
// to login carrying the attempted href, or fail with an error to display. Only
// unauthorized and forbidden errors redirect; every other failure is shown,
// so a server outage never looks like a logout.
//
// The runtime guard ([SessionExpiry]) is a gateway response hook. Any 401,
// from any query or mutation, sends the user to the login page with the
// current href as the redirect target. The location check and the navigation
// happen under one lock, so a burst of concurrent 401s navigates once.
//
//	expiry := guard.NewSessionExpiry(nav, guard.WithLoginPath("/login"))
//	gw := gateway.MustNew(baseURL, gateway.WithResponseHook(expiry.Hook()))
//
//	entry := guard.NewEntry(func(ctx context.Context) error {
//	    _, err := client.CurrentUser(ctx)
//	    return err
//	})
//	switch d := entry.Check(ctx, nav.Location()); d.Outcome {
//	case guard.Allow:
//	case guard.Redirect:
//	    nav.Navigate(d.RedirectTo, true)
//	case guard.Fail:
//	    show(d.Err)
//	}
package guard
