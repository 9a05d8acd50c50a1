package endpoint

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ariebrainware/docflow-schedule/util"
	"github.com/gin-gonic/gin"
)

const oauthStateCookie = "oauth_state"

// OAuthBegin godoc
// @Summary      Start OAuth login
// @Description  Redirect to the provider's consent page
// @Tags         Authentication
// @Param        provider path string true "google or facebook"
// @Success      307
// @Failure      404 {object} util.APIResponse "Provider not configured"
// @Router       /auth/{provider} [get]
func OAuthBegin(p *util.OAuthProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		state, err := util.NewOAuthState()
		if err != nil {
			util.CallServerError(c, util.APIErrorParams{Msg: "Failed to start login", Err: err})
			return
		}
		secure := c.Request.TLS != nil
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(oauthStateCookie, state, 600, "/", "", secure, true)
		c.Redirect(http.StatusTemporaryRedirect, p.AuthCodeURL(state))
	}
}

// OAuthCallback godoc
// @Summary      OAuth callback
// @Description  Exchange the code, sign the user in and redirect to the frontend with a token
// @Tags         Authentication
// @Param        provider path string true "google or facebook"
// @Param        code query string true "Authorization code"
// @Param        state query string true "State returned by the provider"
// @Success      302
// @Failure      400 {object} util.APIResponse "Invalid state"
// @Router       /auth/{provider}/callback [get]
func OAuthCallback(p *util.OAuthProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		expected, err := c.Cookie(oauthStateCookie)
		if err != nil || expected == "" || expected != c.Query("state") {
			util.CallUserError(c, util.APIErrorParams{Msg: "Invalid OAuth state", Err: fmt.Errorf("state mismatch")})
			return
		}
		c.SetCookie(oauthStateCookie, "", -1, "/", "", c.Request.TLS != nil, true)

		if msg := c.Query("error"); msg != "" {
			util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "OAuth login was denied", Err: errors.New(msg)})
			return
		}
		code := c.Query("code")
		if code == "" {
			util.CallUserError(c, util.APIErrorParams{Msg: "Missing authorization code", Err: fmt.Errorf("code is empty")})
			return
		}
		db, ok := getDBOrRespond(c)
		if !ok {
			return
		}

		profile, err := p.Exchange(c.Request.Context(), code)
		if err != nil {
			if errors.Is(err, util.ErrOAuthNoEmail) {
				util.CallUserError(c, util.APIErrorParams{Msg: "The provider did not share an email address", Err: err})
				return
			}
			util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "OAuth login failed", Err: err})
			return
		}
		res, err := authService(c, db).OAuthLogin(c.Request.Context(), profile, clientInfo(c))
		if err != nil {
			respondError(c, err, "OAuth login failed")
			return
		}
		c.Redirect(http.StatusFound, frontendCallbackURL(appConfig(c).FrontendURL, res.Token))
	}
}

func frontendCallbackURL(frontend, token string) string {
	return strings.TrimRight(frontend, "/") + "/auth/callback?token=" + url.QueryEscape(token)
}
