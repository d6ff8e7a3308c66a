/*
Package session implements the form session orchestrator and the registry of
live sessions.

A Session owns the data entered on each form, the transient inline error and
the loading signal. It runs the matching validator for a form and hands the
outcome back to the caller without navigating. A second validation of the same
form while one is pending is rejected with ErrValidationInFlight.

The Manager keeps independent sessions in memory for servers hosting several
users, serializing work on each session with reference-counted locks and an
optional distributed locker.
*/
package session
