package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	deviceCodeEndpoint  = "device/code"
	accessTokenEndpoint = "oauth/access_token"
	cliLoginEndpoint    = "auth/login_cli"

	deviceCodeGrantType = "urn:ietf:params:oauth:grant-type:device_code"

	defaultPollInterval = 5 * time.Second
	slowDownIncrement   = 5 * time.Second
)

// LoginState is a step of the device-code handshake
type LoginState int

const (
	StateInit LoginState = iota
	StateAwaitingUserConfirmation
	StateExchangingCode
	StatePending
	StateTokenIssued
	StateSessionEstablished
)

func (s LoginState) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateAwaitingUserConfirmation:
		return "AWAITING_USER_CONFIRMATION"
	case StateExchangingCode:
		return "EXCHANGING_CODE"
	case StatePending:
		return "PENDING"
	case StateTokenIssued:
		return "TOKEN_ISSUED"
	case StateSessionEstablished:
		return "SESSION_ESTABLISHED"
	default:
		return fmt.Sprintf("LoginState(%d)", int(s))
	}
}

var errSlowDown = errors.New("provider asked to slow down polling")

// Authenticator performs the OAuth device-code flow and trades the provider
// token for a hub session token
type Authenticator struct {
	cfg      Config
	requests *RequestManager

	// Prompt shows the user code and verification URI
	Prompt func(DeviceCodeChallenge)
	// Confirm blocks until the user says they authorized the device (manual mode)
	Confirm func(ctx context.Context) error
	// OnState observes every state transition
	OnState func(LoginState)

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// NewAuthenticator creates an authenticator for the configured provider and hub
func NewAuthenticator(cfg Config, requests *RequestManager) *Authenticator {
	return &Authenticator{
		cfg:      cfg,
		requests: requests,
		sleep:    sleepContext,
		now:      time.Now,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (a *Authenticator) enter(state LoginState) {
	LogDebug("login state: %s", state)
	if a.OnState != nil {
		a.OnState(state)
	}
}

// Login runs the whole handshake and returns the hub session token
func (a *Authenticator) Login(ctx context.Context) (string, error) {
	if a.cfg.ClientID == "" {
		return "", fmt.Errorf("client_id is not configured (set PEPHUB_CLIENT_ID or client_id in the config file)")
	}

	a.enter(StateInit)
	challenge, err := a.RequestDeviceCode(ctx)
	if err != nil {
		return "", err
	}

	a.enter(StateAwaitingUserConfirmation)
	if a.Prompt != nil {
		a.Prompt(*challenge)
	}

	var token *AccessToken
	if a.cfg.DeviceFlow.Mode == DeviceFlowManual {
		token, err = a.waitManual(ctx, challenge)
	} else {
		token, err = a.poll(ctx, challenge)
	}
	if err != nil {
		return "", err
	}

	a.enter(StateTokenIssued)
	session, err := a.ExchangeSessionToken(ctx, token.AccessToken)
	if err != nil {
		return "", err
	}
	a.enter(StateSessionEstablished)
	return session, nil
}

// waitManual asks the user to confirm before every exchange attempt
func (a *Authenticator) waitManual(ctx context.Context, challenge *DeviceCodeChallenge) (*AccessToken, error) {
	for {
		if a.Confirm != nil {
			if err := a.Confirm(ctx); err != nil {
				return nil, err
			}
		}
		a.enter(StateExchangingCode)
		token, err := a.ExchangeDeviceCode(ctx, challenge.DeviceCode)
		if err == nil {
			return token, nil
		}
		if !IsAuthorizationPending(err) || a.Confirm == nil {
			return nil, err
		}
		a.enter(StatePending)
	}
}

// poll retries the exchange at the provider's interval until the code expires
func (a *Authenticator) poll(ctx context.Context, challenge *DeviceCodeChallenge) (*AccessToken, error) {
	interval := time.Duration(challenge.Interval) * time.Second
	if interval <= 0 {
		interval = defaultPollInterval
	}
	var deadline time.Time
	if challenge.ExpiresIn > 0 {
		deadline = a.now().Add(time.Duration(challenge.ExpiresIn) * time.Second)
	}

	for {
		if err := a.sleep(ctx, interval); err != nil {
			return nil, err
		}
		a.enter(StateExchangingCode)
		token, err := a.ExchangeDeviceCode(ctx, challenge.DeviceCode)
		if err == nil {
			return token, nil
		}
		if !IsAuthorizationPending(err) {
			return nil, err
		}
		a.enter(StatePending)
		if errors.Is(err, errSlowDown) {
			interval += slowDownIncrement
		}
		if !deadline.IsZero() && !a.now().Before(deadline) {
			return nil, &HubError{
				Kind:    KindDeviceCodeExpired,
				Op:      "login",
				Message: fmt.Sprintf("the user code %s was not authorized within %ds", challenge.UserCode, challenge.ExpiresIn),
			}
		}
	}
}

// RequestDeviceCode asks the provider for a device and user code pair
func (a *Authenticator) RequestDeviceCode(ctx context.Context) (*DeviceCodeChallenge, error) {
	const op = "device code"
	resp, err := a.requests.Send(ctx, Request{
		Method: http.MethodPost,
		URL:    a.cfg.ProviderURL(deviceCodeEndpoint),
		Params: url.Values{"client_id": {a.cfg.ClientID}},
	})
	if err != nil {
		return nil, err
	}

	var challenge DeviceCodeChallenge
	if err := DecodeJSON(op, resp, &challenge); err != nil {
		return nil, err
	}
	if err := challenge.validate(); err != nil {
		return nil, upstreamMalformed(op, err)
	}
	return &challenge, nil
}

// ExchangeDeviceCode trades an authorized device code for a provider access token.
// An unauthorized code yields a KindAuthorizationPending error that may be retried.
func (a *Authenticator) ExchangeDeviceCode(ctx context.Context, deviceCode string) (*AccessToken, error) {
	const op = "access token"
	resp, err := a.requests.Send(ctx, Request{
		Method: http.MethodPost,
		URL:    a.cfg.ProviderURL(accessTokenEndpoint),
		Params: url.Values{
			"client_id":   {a.cfg.ClientID},
			"device_code": {deviceCode},
			"grant_type":  {deviceCodeGrantType},
		},
	})
	if err != nil {
		return nil, err
	}

	var body struct {
		AccessToken
		providerError
	}
	if err := DecodeJSON(op, resp, &body); err != nil {
		return nil, err
	}
	if body.AccessToken.AccessToken != "" {
		token := body.AccessToken
		return &token, nil
	}

	switch body.providerError.Error {
	case "authorization_pending":
		return nil, &HubError{Kind: KindAuthorizationPending, Op: op, Message: "you must first authorize with the provider by using the provided code"}
	case "slow_down":
		return nil, &HubError{Kind: KindAuthorizationPending, Op: op, Message: body.ErrorDescription, Err: errSlowDown}
	case "expired_token":
		return nil, &HubError{Kind: KindDeviceCodeExpired, Op: op, Message: body.ErrorDescription}
	case "":
		return nil, upstreamMalformed(op, fmt.Errorf("response carries neither access_token nor error"))
	default:
		return nil, upstreamMalformed(op, fmt.Errorf("%s: %s", body.providerError.Error, body.ErrorDescription))
	}
}

// ExchangeSessionToken presents the provider token to the hub and returns its session token
func (a *Authenticator) ExchangeSessionToken(ctx context.Context, accessToken string) (string, error) {
	const op = "hub login"
	resp, err := a.requests.Send(ctx, Request{
		Method:  http.MethodPost,
		URL:     a.cfg.HubURL(cliLoginEndpoint),
		Headers: map[string]string{"access-token": accessToken},
	})
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", upstreamMalformed(op, fmt.Errorf("hub answered HTTP %d", resp.StatusCode))
	}

	var session sessionTokenResponse
	if err := DecodeJSON(op, resp, &session); err != nil {
		return "", err
	}
	if session.JWTToken == "" {
		return "", upstreamMalformed(op, fmt.Errorf("missing jwt_token"))
	}
	return session.JWTToken, nil
}
