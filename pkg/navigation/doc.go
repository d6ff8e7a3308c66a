/*
Package navigation implements the stack router and the flow selector.

The Router is a plain state machine over domain routes. It records every
visited screen as a Frame holding a private copy of the form data that was live
when the screen was entered, so going back restores exactly that data.

Neither type is safe for concurrent use. Callers serialize access, as the
formflow Engine does with its own mutex.
*/
package navigation
