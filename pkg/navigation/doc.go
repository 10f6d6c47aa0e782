// Package navigation is the boundary between the session layer and whatever
// renders screens. The auth guards only need to know where the user is and to
// send them somewhere else; [Navigator] captures exactly that.
//
// [History] is an in-memory Navigator with a back stack, used by the terminal
// client and by tests. [Routes] matches paths against chi patterns so a
// Location can be turned into a screen name plus parameters.
//
// Login redirects follow one contract: the login location carries the
// original href in its "redirect" parameter, and after login [RedirectTarget]
// returns it when it is an app-relative path, or "/" otherwise.
package navigation
