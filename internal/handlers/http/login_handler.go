// internal/handlers/http/login_handler.go
package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"dca-oilgas/internal/middleware"
	"dca-oilgas/internal/util"
)

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResp struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      string    `json:"user"`
	Role      string    `json:"role"`
}

// loginClock bisa diganti di test.
var loginClock util.Clock = util.RealClock{}

// LoginHandler menukar ADMIN_USER/ADMIN_PASS_HASH dengan JWT untuk /admin/*.
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var in loginReq
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeAppError(w, util.BadInput("invalid json body"))
		return
	}

	switch err := middleware.CheckAdminCredentials(in.Username, in.Password); {
	case errors.Is(err, middleware.ErrAdminNotConfigured):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden", "message": err.Error()})
		return
	case err != nil:
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized", "message": err.Error()})
		return
	}

	token, exp, err := middleware.GenerateAdminToken(in.Username, loginClock.Now())
	if err != nil {
		writeAppError(w, util.Internal("token error: "+err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, loginResp{Token: token, ExpiresAt: exp, User: in.Username, Role: "admin"})
}
