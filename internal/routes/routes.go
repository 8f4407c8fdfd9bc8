// Copyright (c) 2025 Mochi
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package routes is the catalog of Mochi applications and where each one is
// mounted. Every app is deployed on its own; moving between them is a full
// page navigation.
package routes

import (
	"fmt"
	"sort"
	"strings"
)

// Core app paths. The core app owns sign-in and writes the shared credential.
const (
	CoreBase       = "/"
	SignIn         = "/login"
	SignUp         = "/sign-up"
	ForgotPassword = "/forgot-password"
	OTP            = "/otp"
)

// App describes one deployable application.
type App struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Base  string `json:"base"`
	Home  string `json:"home"`
	// Icon is a lucide icon name used by the navigation.
	Icon string `json:"icon"`
	// External marks apps reached by leaving the current deployable.
	External bool `json:"external"`
}

var catalog = []App{
	{Name: "home", Title: "Home", Base: "/home/", Home: "/home/", Icon: "home", External: true},
	{Name: "chat", Title: "Chat", Base: "/chat/", Home: "/chat/", Icon: "messages-square", External: true},
	{Name: "friends", Title: "Friends", Base: "/friends/", Home: "/friends/", Icon: "user-plus", External: true},
	{Name: "notifications", Title: "Notifications", Base: "/notifications/", Home: "/notifications/", Icon: "bell", External: true},
	{Name: "feeds", Title: "Feeds", Base: "/feeds/", Home: "/feeds/", Icon: "newspaper", External: true},
	{Name: "forums", Title: "Forums", Base: "/forums/", Home: "/forums/", Icon: "message-circle", External: true},
	{Name: "settings", Title: "Settings", Base: "/settings/", Home: "/settings/", Icon: "settings", External: true},
	{Name: "template", Title: "Template", Base: "/template/", Home: "/template/", Icon: "layout-template"},
}

// Apps returns every application in navigation order.
func Apps() []App {
	return append([]App(nil), catalog...)
}

// Lookup returns the app called name.
func Lookup(name string) (App, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, app := range catalog {
		if app.Name == name {
			return app, nil
		}
	}
	return App{}, fmt.Errorf("unknown app %q (known: %s)", name, strings.Join(Names(), ", "))
}

// Names returns the sorted app names.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for _, app := range catalog {
		names = append(names, app.Name)
	}
	sort.Strings(names)
	return names
}

// NavItem is one entry of the sidebar navigation.
type NavItem struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Icon     string `json:"icon"`
	External bool   `json:"external"`
	Active   bool   `json:"active"`
}

// NavGroup is a titled list of navigation items.
type NavGroup struct {
	Title string    `json:"title"`
	Items []NavItem `json:"items"`
}

// Sidebar builds the "Apps" navigation as seen from the app called current.
// The current app is linked in-app rather than externally.
func Sidebar(current string) []NavGroup {
	items := make([]NavItem, 0, len(catalog))
	for _, app := range catalog {
		active := app.Name == current
		items = append(items, NavItem{
			Title:    app.Title,
			URL:      app.Home,
			Icon:     app.Icon,
			External: app.External && !active,
			Active:   active,
		})
	}
	return []NavGroup{{Title: "Apps", Items: items}}
}

// ErrorPage describes one error screen.
type ErrorPage struct {
	Status int
	Slug   string
	Title  string
	Body   string
}

var errorPages = []ErrorPage{
	{Status: 401, Slug: "unauthorized", Title: "Unauthorized Access", Body: "Please log in with the appropriate credentials to access this resource."},
	{Status: 403, Slug: "forbidden", Title: "Access Forbidden", Body: "You don't have necessary permission to view this resource."},
	{Status: 404, Slug: "not-found", Title: "Oops! Page Not Found!", Body: "It seems like the page you're looking for does not exist or might have been removed."},
	{Status: 500, Slug: "internal-server-error", Title: "Oops! Something went wrong", Body: "We apologize for the inconvenience. Please try again later."},
	{Status: 503, Slug: "maintenance-error", Title: "Website is under maintenance!", Body: "The site is not available at the moment. We'll be back online shortly."},
}

// LookupError resolves an error page by status code ("404") or slug
// ("not-found"). Unknown values resolve to the not-found page.
func LookupError(key string) ErrorPage {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, p := range errorPages {
		if key == p.Slug || key == fmt.Sprint(p.Status) {
			return p
		}
	}
	return errorPages[2]
}
