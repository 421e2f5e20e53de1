package handler

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/config"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/ctxkeys"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/model"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/service"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/validation"
)

type authHandler struct {
	authService       *service.AuthService
	userService       *service.UserService
	googleOAuthConfig *oauth2.Config
	isProduction      bool
}

func NewAuthHandler(authService *service.AuthService, userService *service.UserService, cfg *config.Config) *authHandler {
	return &authHandler{
		authService: authService,
		userService: userService,
		googleOAuthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.AppURL + "/auth/google/callback",
			Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email"},
			Endpoint:     google.Endpoint,
		},
		isProduction: cfg.IsProduction(),
	}
}

func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	err := validation.ValidateEmail(req.Email)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid email address")
		return
	}

	user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	err = h.issueSession(w, user)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	slog.Info("user logged in", "user_id", user.ID)
	h.respondSessionState(w, user)
}

func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearJWTCookie(w)
	respondJSON(w, http.StatusOK, map[string]string{"redirect": "/login"})
}

// Me reports the session state the frontend needs to route: the user,
// the profile when the invite was redeemed, and nothing else.
func (h *authHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	profile := ctxkeys.Profile(r.Context())

	resp := map[string]any{"user": user}
	if profile != nil {
		resp["profile"] = profile
	} else {
		resp["setup_required"] = true
	}
	respondJSON(w, http.StatusOK, resp)
}

// VerifyInvite consumes a single-use invite link and signs the invited
// user in. The session lands in the setup state until the profile is
// created.
func (h *authHandler) VerifyInvite(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")

	user, err := h.authService.ConsumeInviteLink(token)
	if err != nil {
		slog.Warn("invite link verification failed", "error", err)
		respondServiceError(w, r, err)
		return
	}

	err = h.issueSession(w, user)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	slog.Info("invite link redeemed", "user_id", user.ID)
	http.Redirect(w, r, "/setup", http.StatusSeeOther)
}

// Setup completes the invite flow: the profile is created with the
// invited name and role, and an optional password enables the
// email+password login path.
func (h *authHandler) Setup(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req struct {
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Password != "" {
		err := validation.ValidatePassword(req.Password)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	profile, err := h.authService.Setup(user, req.Password)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"profile":  profile,
		"redirect": "/",
	})
}

// GoogleAuth redirects to the Google consent screen
func (h *authHandler) GoogleAuth(w http.ResponseWriter, r *http.Request) {
	state := generateOAuthState()

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.isProduction,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600, // 10 minutes
	})

	url := h.googleOAuthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// GoogleCallback handles the OAuth callback from Google
func (h *authHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie("oauth_state")
	if err != nil || cookie.Value != state || state == "" {
		slog.Warn("google oauth state validation failed", "error", err)
		http.Redirect(w, r, "/login?error=oauth", http.StatusSeeOther)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:   "oauth_state",
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		slog.Warn("google oauth callback missing code")
		http.Redirect(w, r, "/login?error=oauth", http.StatusSeeOther)
		return
	}

	token, err := h.googleOAuthConfig.Exchange(context.Background(), code)
	if err != nil {
		slog.Error("google oauth token exchange failed", "error", err)
		http.Redirect(w, r, "/login?error=oauth", http.StatusSeeOther)
		return
	}

	client := h.googleOAuthConfig.Client(context.Background(), token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		slog.Error("failed to get google user info", "error", err)
		http.Redirect(w, r, "/login?error=oauth", http.StatusSeeOther)
		return
	}
	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			slog.Error("failed to close response body", "error", closeErr)
		}
	}()

	var userInfo struct {
		Email string `json:"email"`
	}
	err = json.NewDecoder(resp.Body).Decode(&userInfo)
	if err != nil {
		slog.Error("failed to decode google user info", "error", err)
		http.Redirect(w, r, "/login?error=oauth", http.StatusSeeOther)
		return
	}

	user, err := h.authService.AuthenticateOAuth(userInfo.Email, "google")
	if err != nil {
		slog.Error("oauth authentication failed", "error", err, "email", userInfo.Email)
		http.Redirect(w, r, "/login?error=oauth", http.StatusSeeOther)
		return
	}

	err = h.issueSession(w, user)
	if err != nil {
		slog.Error("failed to issue session after oauth", "error", err, "user_id", user.ID)
		http.Redirect(w, r, "/login?error=oauth", http.StatusSeeOther)
		return
	}

	slog.Info("user logged in via google", "user_id", user.ID)

	// Without a redeemed invite the user lands in setup
	_, err = h.userService.ProfileByUserID(user.ID)
	if err != nil {
		http.Redirect(w, r, "/setup", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *authHandler) issueSession(w http.ResponseWriter, user *model.User) error {
	jwtToken, err := h.authService.GenerateJWT(user)
	if err != nil {
		return err
	}
	h.authService.SetJWTCookie(w, jwtToken, time.Now().Add(h.authService.JWTExpiry()))
	return nil
}

func (h *authHandler) respondSessionState(w http.ResponseWriter, user *model.User) {
	resp := map[string]any{"user": user}

	profile, err := h.userService.ProfileByUserID(user.ID)
	if err == nil {
		resp["profile"] = profile
		resp["redirect"] = "/"
	} else {
		resp["setup_required"] = true
		resp["redirect"] = "/setup"
	}

	respondJSON(w, http.StatusOK, resp)
}

// generateOAuthState creates a secure random state token
func generateOAuthState() string {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		panic("failed to generate oauth state: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
