package router

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"ai-interview-api/internal/core/cache"
	"ai-interview-api/internal/domain"
	httpez "ai-interview-api/internal/transport/http/ez"
	"ai-interview-api/pkg/utils"
)

type userSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func mountAuthActions(api, authed *gin.RouterGroup, d Deps) {
	ezPublic := httpez.New(api)
	ezAuth := httpez.New(authed)

	// POST /api/auth/register
	type registerIn struct {
		Name     string `json:"name"     binding:"required,max=64"`
		Email    string `json:"email"    binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	type registerOut struct {
		Message string      `json:"message"`
		Token   string      `json:"token"`
		User    userSummary `json:"user"`
	}
	httpez.RegisterAction[registerIn, registerOut](ezPublic, httpez.Action[registerIn, registerOut]{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *registerIn) (registerOut, error) {
			u := &domain.User{
				ID:           utils.NewID(),
				Email:        strings.ToLower(strings.TrimSpace(in.Email)),
				Name:         strings.TrimSpace(in.Name),
				PasswordHash: utils.HashPassword(in.Password),
			}
			// Uniqueness rides on the email index, so two concurrent
			// registrations cannot both win.
			if err := d.Users.Create(c, u); err != nil {
				if errors.Is(err, domain.ErrDuplicateEmail) {
					return registerOut{}, httpez.BadRequest("email already registered")
				}
				return registerOut{}, httpez.Internal("register failed", err)
			}
			tok, err := d.JWTer.Issue(u.ID, u.Email)
			if err != nil {
				return registerOut{}, httpez.Internal("issue token failed", err)
			}
			return registerOut{
				Message: "User registered successfully",
				Token:   tok,
				User:    userSummary{ID: u.ID, Name: u.Name, Email: u.Email},
			}, nil
		},
	})

	// POST /api/auth/login
	type loginIn struct {
		Email    string `json:"email"    binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	type loginOut struct {
		Message string      `json:"message"`
		Token   string      `json:"token"`
		User    userSummary `json:"user"`
	}
	httpez.RegisterAction[loginIn, loginOut](ezPublic, httpez.Action[loginIn, loginOut]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (loginOut, error) {
			email := strings.ToLower(strings.TrimSpace(in.Email))
			u, err := d.Users.FindByEmail(c, email)
			if err != nil {
				return loginOut{}, httpez.Internal("login failed", err)
			}
			// Absent user and wrong password are indistinguishable.
			if u == nil || !utils.CheckPassword(in.Password, u.PasswordHash) {
				return loginOut{}, httpez.Unauthorized(domain.ErrInvalidCredentials.Error())
			}
			tok, err := d.JWTer.Issue(u.ID, u.Email)
			if err != nil {
				return loginOut{}, httpez.Internal("issue token failed", err)
			}
			return loginOut{
				Message: "Login successful",
				Token:   tok,
				User:    userSummary{ID: u.ID, Name: u.Name, Email: u.Email},
			}, nil
		},
	})

	// GET /api/me. Users never mutate, so the profile caches freely.
	httpez.RegisterAction[struct{}, userSummary](ezAuth, httpez.Action[struct{}, userSummary]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (userSummary, error) {
			uid := c.GetString("userId")
			u, err := cache.GetOrLoadJSON(d.Cache, c, "user:"+uid, 10*time.Minute,
				func(ctx context.Context) (*domain.User, error) {
					return d.Users.FindByID(ctx, uid)
				})
			if err != nil {
				return userSummary{}, httpez.Internal("load user failed", err)
			}
			if u == nil {
				return userSummary{}, httpez.NotFound("user not found")
			}
			return userSummary{ID: u.ID, Name: u.Name, Email: u.Email}, nil
		},
	})
}
