// Package preview assembles the frontend preview toolbar.
//
// Toolbar providers are registered on a Manager at startup, in the order
// their sections appear. The Authenticator and TokenChecker manage the
// preview cookie that lets a backend user browse the site as a chosen
// member or as a guest.
package preview
