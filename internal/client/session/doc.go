// Package session implements the console's inactivity timeout.
//
// A Monitor owns one session at a time. While ACTIVE it keeps an idle
// countdown that every interaction signal resets, and polls storage so that
// a credential removed by another process (or by a logout elsewhere) ends
// the session here too. When the session ends the monitor clears the cached
// credential and tokens, publishes EXPIRED to its subscribers, tells the
// user why and redirects the console to the sign-in view.
//
// The monitor is the only authority on expiry; other components subscribe
// to it instead of polling on their own.
package session
