// Package main provides the entry point of Better Auth Admin, a web
// dashboard for a remote better-auth server. It serves server-rendered
// pages for users, sessions and organizations through the fiber framework,
// keeps an audit log of admin actions with gorm and can host a prebuilt
// single-page dashboard with its runtime configuration injected.
package main
