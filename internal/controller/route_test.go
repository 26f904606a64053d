package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteResolve(t *testing.T) {
	tests := []struct {
		route Route
		want  Destination
	}{
		{RouteLogin, Destination{Screen: ScreenLogin}},
		{RouteRegister, Destination{Screen: ScreenRegister}},
		{RouteForgotPassword, Destination{Screen: ScreenForgotPassword}},
		{ResetPasswordRoute("a b"), Destination{Screen: ScreenResetPassword, Token: "a b"}},
		{RouteDashboard, Destination{Screen: ScreenDashboard}},
		{CollectionRoute(12), Destination{Screen: ScreenCollection, CollectionID: 12}},
		{Route("/collections/abc"), Destination{Screen: ScreenCollection}},
		{RouteSocial, Destination{Screen: ScreenSocial}},
		{SocialUserRoute(3), Destination{Screen: ScreenSocialUser, UserID: 3}},
		{SocialCollectionRoute(3, 9), Destination{Screen: ScreenSocialCollection, UserID: 3, CollectionID: 9}},
		{RouteProfile, Destination{Screen: ScreenProfile}},
	}

	for _, tt := range tests {
		t.Run(string(tt.route), func(t *testing.T) {
			got, err := tt.route.Resolve()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRouteResolveUnknown(t *testing.T) {
	_, err := Route("/nowhere/at/all").Resolve()
	assert.Error(t, err)
	_, err = RouteNone.Resolve()
	assert.Error(t, err)
}

func TestScreenProtected(t *testing.T) {
	assert.False(t, ScreenLogin.Protected())
	assert.False(t, ScreenResetPassword.Protected())
	assert.True(t, ScreenDashboard.Protected())
	assert.True(t, ScreenSocialCollection.Protected())
}
