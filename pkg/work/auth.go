package work

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// AuthMethod selects the login endpoint.
type AuthMethod string

const (
	// AuthSession is PUT /api/v1/session/login with user id and password.
	AuthSession AuthMethod = "session"

	// AuthNetwork is PUT /api/v1/session/network-login with a domain account.
	// The response also names the user's preferred database.
	AuthNetwork AuthMethod = "network"

	// AuthOAuth2 is POST /auth/oauth2/token with a form-encoded body.
	AuthOAuth2 AuthMethod = "oauth2"
)

const (
	sessionLoginPath = "/api/v1/session/login"
	networkLoginPath = "/api/v1/session/network-login"
	oauth2TokenPath  = "/auth/oauth2/token"

	// Grant types accepted by the OAuth2 token endpoint.
	GrantPassword          = "password"
	GrantClientCredentials = "client_credentials"
)

// ParseAuthMethod converts a flag value into an AuthMethod.
func ParseAuthMethod(s string) (AuthMethod, error) {
	switch m := AuthMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case AuthSession, AuthNetwork, AuthOAuth2:
		return m, nil
	default:
		return "", fmt.Errorf("unknown auth method %q (must be session, network, or oauth2)", s)
	}
}

// OAuth2Credentials are the extra inputs of the OAuth2 token endpoint.
type OAuth2Credentials struct {
	Scope        string
	ClientID     string
	ClientSecret string
	GrantType    string
}

// Credentials identify the user for one login call.
type Credentials struct {
	UserID   string
	Domain   string
	Password string

	// OAuth2 is required for AuthOAuth2 and ignored otherwise.
	OAuth2 *OAuth2Credentials
}

// Validate checks the credentials required by the given method.
func (c *Credentials) Validate(method AuthMethod) error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.UserID, validation.Required),
		validation.Field(&c.Password, validation.Required),
		validation.Field(&c.Domain, validation.When(method == AuthNetwork, validation.Required)),
		validation.Field(&c.OAuth2, validation.When(method == AuthOAuth2, validation.Required)),
	)
	if err != nil {
		return err
	}
	if method != AuthOAuth2 {
		return nil
	}
	return validation.ValidateStruct(c.OAuth2,
		validation.Field(&c.OAuth2.ClientID, validation.Required),
		validation.Field(&c.OAuth2.GrantType, validation.Required,
			validation.In(GrantPassword, GrantClientCredentials)),
	)
}

// Session is the result of a successful login.
type Session struct {
	Method AuthMethod

	// Token is sent in the X-Auth-Token header. Never empty.
	Token string

	// PreferredDatabase is only returned by network login.
	PreferredDatabase string
}

type sessionLoginRequest struct {
	UserID   string `json:"user_id"`
	Domain   string `json:"domain,omitempty"`
	Password string `json:"password"`
	Persona  string `json:"persona,omitempty"`
}

type sessionLoginResponse struct {
	Token string `json:"X-Auth-Token"`
	User  *struct {
		PreferredDatabase string `json:"preferred_database"`
	} `json:"user"`
}

// Login exchanges credentials for a bearer token. Any failure is returned
// as *AuthError. Login is never retried.
func (c *Client) Login(ctx context.Context, creds Credentials, method AuthMethod) (*Session, error) {
	if err := creds.Validate(method); err != nil {
		return nil, &AuthError{Method: method, Err: fmt.Errorf("invalid credentials: %w", err)}
	}

	logger := c.logger.Named("auth")
	logger.Debug("logging in", "method", method, "user_id", creds.UserID)

	var (
		session *Session
		err     error
	)
	switch method {
	case AuthSession, AuthNetwork:
		session, err = c.sessionLogin(ctx, creds, method)
	case AuthOAuth2:
		session, err = c.oauth2Login(ctx, creds)
	default:
		err = fmt.Errorf("unsupported auth method %q", method)
	}
	if err != nil {
		logger.Error("login failed", "method", method, "error", err)
		return nil, &AuthError{Method: method, Err: err}
	}

	logger.Info("logged in", "method", method, "preferred_database", session.PreferredDatabase)
	return session, nil
}

func (c *Client) sessionLogin(ctx context.Context, creds Credentials, method AuthMethod) (*Session, error) {
	body := sessionLoginRequest{
		UserID:   creds.UserID,
		Password: creds.Password,
	}
	path := sessionLoginPath
	if method == AuthNetwork {
		path = networkLoginPath
		body.Domain = creds.Domain
		body.Persona = "user"
	}

	var resp sessionLoginResponse
	err := c.do(ctx, request{
		op:     "login",
		method: http.MethodPut,
		path:   path,
		body:   body,
	}, &resp)
	if err != nil {
		return nil, err
	}

	if resp.Token == "" {
		return nil, &ResponseShapeError{Op: "login", Field: HeaderAuthToken}
	}

	session := &Session{Method: method, Token: resp.Token}
	if resp.User != nil {
		session.PreferredDatabase = resp.User.PreferredDatabase
	}
	return session, nil
}

func (c *Client) oauth2Login(ctx context.Context, creds Credentials) (*Session, error) {
	oc := creds.OAuth2
	tokenURL := c.config.BaseURL + oauth2TokenPath

	// The oauth2 package flattens transport errors into strings; record the
	// underlying error so it can be reported as a TransportError.
	recorder := &transportRecorder{base: c.client.Transport}
	httpClient := *c.client
	httpClient.Transport = recorder
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &httpClient)

	scopes := strings.Fields(oc.Scope)

	var (
		token *oauth2.Token
		err   error
	)
	switch oc.GrantType {
	case GrantPassword:
		cfg := &oauth2.Config{
			ClientID:     oc.ClientID,
			ClientSecret: oc.ClientSecret,
			Scopes:       scopes,
			Endpoint: oauth2.Endpoint{
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		}
		token, err = cfg.PasswordCredentialsToken(ctx, creds.UserID, creds.Password)
	case GrantClientCredentials:
		cfg := &clientcredentials.Config{
			ClientID:     oc.ClientID,
			ClientSecret: oc.ClientSecret,
			TokenURL:     tokenURL,
			Scopes:       scopes,
			AuthStyle:    oauth2.AuthStyleInParams,
			EndpointParams: url.Values{
				"username": {creds.UserID},
				"password": {creds.Password},
			},
		}
		token, err = cfg.Token(ctx)
	default:
		return nil, fmt.Errorf("unsupported grant type %q", oc.GrantType)
	}
	if err != nil {
		return nil, classifyOAuth2Error(err, tokenURL, recorder.err)
	}

	if token.AccessToken == "" {
		return nil, &ResponseShapeError{Op: "login", Field: "access_token"}
	}

	return &Session{Method: AuthOAuth2, Token: token.AccessToken}, nil
}

func classifyOAuth2Error(err error, tokenURL string, transportErr error) error {
	if transportErr != nil {
		return &TransportError{Op: "login", URL: tokenURL, Err: transportErr}
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
		status := retrieveErr.Response.StatusCode
		if status < 200 || status >= 300 {
			return &ServerError{
				Op:         "login",
				StatusCode: status,
				Body:       strings.TrimSpace(string(retrieveErr.Body)),
			}
		}
	}

	if strings.Contains(err.Error(), "missing access_token") {
		return &ResponseShapeError{Op: "login", Field: "access_token"}
	}
	return &ResponseShapeError{Op: "login", Err: err}
}

// transportRecorder remembers the last error returned by the transport.
type transportRecorder struct {
	base http.RoundTripper
	err  error
}

func (t *transportRecorder) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	resp, err := base.RoundTrip(req)
	if err != nil {
		t.err = err
	}
	return resp, err
}
