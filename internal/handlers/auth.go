package handlers

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"drawbase/internal/models"
	"drawbase/internal/store"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

// Auth issues and rotates tokens for the identity port. The rest of the
// API only ever sees the user ID this package puts in the access token.
type Auth struct {
	store      store.Store
	rdb        *redis.Client
	privateKey *rsa.PrivateKey
	PublicKey  *rsa.PublicKey
}

// NewAuth generates an RSA keypair for signing (in production, load from
// files instead).
func NewAuth(st store.Store, rdb *redis.Client) (*Auth, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}
	return &Auth{
		store:      st,
		rdb:        rdb,
		privateKey: privateKey,
		PublicKey:  &privateKey.PublicKey,
	}, nil
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User        models.User `json:"user"`
	AccessToken string      `json:"access_token"`
}

func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		SendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		SendError(w, http.StatusBadRequest, "name, email and password are required")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		SendError(w, http.StatusInternalServerError, "Error hashing password")
		return
	}

	user := models.User{
		ID:       uuid.New().String(),
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashedPassword),
	}
	if err := a.store.CreateUser(r.Context(), &user); err != nil {
		SendServiceError(w, err)
		return
	}

	accessToken, refreshToken, err := a.generateTokens(r, user.ID)
	if err != nil {
		SendError(w, http.StatusInternalServerError, "Error generating tokens")
		return
	}
	a.setRefreshCookie(w, refreshToken)

	SendSuccess(w, http.StatusCreated, "User registered successfully", AuthResponse{
		User:        user,
		AccessToken: accessToken,
	})
}

func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		SendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := a.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		SendError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		SendError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	accessToken, refreshToken, err := a.generateTokens(r, user.ID)
	if err != nil {
		SendError(w, http.StatusInternalServerError, "Error generating tokens")
		return
	}
	a.setRefreshCookie(w, refreshToken)

	SendSuccess(w, http.StatusOK, "Login successful", AuthResponse{
		User:        *user,
		AccessToken: accessToken,
	})
}

func (a *Auth) RefreshToken(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("refresh_token")
	if err != nil {
		SendError(w, http.StatusUnauthorized, "No refresh token")
		return
	}

	token, err := jwt.Parse(cookie.Value, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.PublicKey, nil
	})
	if err != nil || !token.Valid {
		SendError(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		SendError(w, http.StatusUnauthorized, "Invalid token claims")
		return
	}
	jti, ok := claims["jti"].(string)
	if !ok {
		SendError(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	userID, ok := claims["user_id"].(string)
	if !ok {
		SendError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	ctx := r.Context()
	val, err := a.rdb.Get(ctx, fmt.Sprintf("refresh_token:%s", jti)).Result()
	if err != nil || val != userID {
		SendError(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	// Rotation: blacklist the access token that was issued alongside this
	// refresh token, then drop the refresh token itself.
	oldAccessJti, err := a.rdb.Get(ctx, fmt.Sprintf("refresh_to_access:%s", jti)).Result()
	if err == nil && oldAccessJti != "" {
		a.rdb.Set(ctx, fmt.Sprintf("blacklist:access_token:%s", oldAccessJti), "1", accessTokenTTL)
	}
	a.rdb.Del(ctx, fmt.Sprintf("refresh_token:%s", jti))
	a.rdb.Del(ctx, fmt.Sprintf("refresh_to_access:%s", jti))

	accessToken, refreshToken, err := a.generateTokens(r, userID)
	if err != nil {
		SendError(w, http.StatusInternalServerError, "Error generating tokens")
		return
	}
	a.setRefreshCookie(w, refreshToken)

	SendSuccess(w, http.StatusOK, "Token refreshed successfully", map[string]string{"access_token": accessToken})
}

func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.PublicKey, nil
	})
	if err == nil && token.Valid {
		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if jti, ok := claims["jti"].(string); ok {
				a.rdb.Set(r.Context(), fmt.Sprintf("blacklist:access_token:%s", jti), "1", accessTokenTTL)
			}
		}
	}

	if cookie, err := r.Cookie("refresh_token"); err == nil {
		if token, err := jwt.Parse(cookie.Value, func(token *jwt.Token) (interface{}, error) {
			return a.PublicKey, nil
		}); err == nil {
			if claims, ok := token.Claims.(jwt.MapClaims); ok {
				if jti, ok := claims["jti"].(string); ok {
					a.rdb.Del(r.Context(), fmt.Sprintf("refresh_token:%s", jti))
					a.rdb.Del(r.Context(), fmt.Sprintf("refresh_to_access:%s", jti))
				}
			}
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    "",
		HttpOnly: true,
		Path:     "/",
		MaxAge:   -1,
	})
	SendSuccessNoData(w, http.StatusOK, "Logged out successfully")
}

func (a *Auth) generateTokens(r *http.Request, userID string) (string, string, error) {
	ctx := r.Context()
	now := time.Now()

	accessJti := uuid.New().String()
	accessClaims := jwt.MapClaims{
		"user_id": userID,
		"jti":     accessJti,
		"exp":     now.Add(accessTokenTTL).Unix(),
		"iat":     now.Unix(),
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodRS256, accessClaims).SignedString(a.privateKey)
	if err != nil {
		return "", "", err
	}
	if err := a.rdb.Set(ctx, fmt.Sprintf("access_token:%s", accessJti), userID, accessTokenTTL).Err(); err != nil {
		return "", "", err
	}

	refreshJti := uuid.New().String()
	refreshClaims := jwt.MapClaims{
		"user_id": userID,
		"jti":     refreshJti,
		"exp":     now.Add(refreshTokenTTL).Unix(),
		"iat":     now.Unix(),
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodRS256, refreshClaims).SignedString(a.privateKey)
	if err != nil {
		return "", "", err
	}
	if err := a.rdb.Set(ctx, fmt.Sprintf("refresh_token:%s", refreshJti), userID, refreshTokenTTL).Err(); err != nil {
		return "", "", err
	}
	// Remember which access token this refresh token pairs with so
	// rotation can blacklist it.
	if err := a.rdb.Set(ctx, fmt.Sprintf("refresh_to_access:%s", refreshJti), accessJti, refreshTokenTTL).Err(); err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

func (a *Auth) setRefreshCookie(w http.ResponseWriter, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		HttpOnly: true,
		Secure:   false, // set to true behind HTTPS
		Path:     "/",
		MaxAge:   int(refreshTokenTTL / time.Second),
	})
}
