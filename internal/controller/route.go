package controller

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gravitrone/shelf/cli/internal/api"
)

// Route is a navigation signal emitted by controllers. The view decides how
// to get there.
type Route string

const (
	RouteNone           Route = ""
	RouteLogin          Route = "/login"
	RouteRegister       Route = "/register"
	RouteForgotPassword Route = "/forgot-password"
	RouteResetPassword  Route = "/reset-password"
	RouteDashboard      Route = "/dashboard"
	RouteSocial         Route = "/social"
	RouteProfile        Route = "/profile"
)

func CollectionRoute(id api.ID) Route {
	return Route("/collections/" + id.String())
}

func SocialUserRoute(userID api.ID) Route {
	return Route("/social/user/" + userID.String())
}

func SocialCollectionRoute(userID, collectionID api.ID) Route {
	return Route(fmt.Sprintf("/social/user/%s/collection/%s", userID, collectionID))
}

func ResetPasswordRoute(token string) Route {
	if token == "" {
		return RouteResetPassword
	}
	return Route(string(RouteResetPassword) + "?token=" + url.QueryEscape(token))
}

// Screen names a destination independent of its parameters.
type Screen int

const (
	ScreenUnknown Screen = iota
	ScreenLogin
	ScreenRegister
	ScreenForgotPassword
	ScreenResetPassword
	ScreenDashboard
	ScreenCollection
	ScreenSocial
	ScreenSocialUser
	ScreenSocialCollection
	ScreenProfile
)

// Destination is a resolved Route. Ids that fail to parse stay zero so the
// target controller can apply its not-found fallback.
type Destination struct {
	Screen       Screen
	UserID       api.ID
	CollectionID api.ID
	Token        string
}

// Resolve parses r into a Destination.
func (r Route) Resolve() (Destination, error) {
	raw := string(r)
	path, query, _ := strings.Cut(raw, "?")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	id := func(s string) api.ID {
		parsed, _ := api.ParseID(s)
		return parsed
	}

	switch {
	case len(parts) == 1:
		switch parts[0] {
		case "login":
			return Destination{Screen: ScreenLogin}, nil
		case "register":
			return Destination{Screen: ScreenRegister}, nil
		case "forgot-password":
			return Destination{Screen: ScreenForgotPassword}, nil
		case "reset-password":
			values, _ := url.ParseQuery(query)
			return Destination{Screen: ScreenResetPassword, Token: values.Get("token")}, nil
		case "dashboard":
			return Destination{Screen: ScreenDashboard}, nil
		case "social":
			return Destination{Screen: ScreenSocial}, nil
		case "profile":
			return Destination{Screen: ScreenProfile}, nil
		}
	case len(parts) == 2 && parts[0] == "collections":
		return Destination{Screen: ScreenCollection, CollectionID: id(parts[1])}, nil
	case len(parts) == 3 && parts[0] == "social" && parts[1] == "user":
		return Destination{Screen: ScreenSocialUser, UserID: id(parts[2])}, nil
	case len(parts) == 5 && parts[0] == "social" && parts[1] == "user" && parts[3] == "collection":
		return Destination{Screen: ScreenSocialCollection, UserID: id(parts[2]), CollectionID: id(parts[4])}, nil
	}
	return Destination{}, fmt.Errorf("unknown route %q", raw)
}

// Protected reports whether the screen needs a session.
func (s Screen) Protected() bool {
	switch s {
	case ScreenLogin, ScreenRegister, ScreenForgotPassword, ScreenResetPassword, ScreenUnknown:
		return false
	}
	return true
}
