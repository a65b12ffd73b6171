package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/anonto42/ecobite/web/internal/models"
)

const (
	flashCookie = "ecobite_flash"
	flashTTL    = time.Minute
)

type noticeClaims struct {
	Kind    models.NoticeKind `json:"kind"`
	Message string            `json:"message"`
	jwt.RegisteredClaims
}

// Flasher stores a notice in a signed cookie until the next page render.
type Flasher struct {
	secret []byte
	now    func() time.Time
}

// NewFlasher creates a Flasher signing with secret.
func NewFlasher(secret string) *Flasher {
	return &Flasher{secret: []byte(secret), now: time.Now}
}

// Success queues a confirmation notice.
func (f *Flasher) Success(c echo.Context, message string) error {
	return f.Set(c, models.Notice{Kind: models.NoticeSuccess, Message: message})
}

// Error queues a failure notice.
func (f *Flasher) Error(c echo.Context, message string) error {
	return f.Set(c, models.Notice{Kind: models.NoticeError, Message: message})
}

// Set queues n for the next render.
func (f *Flasher) Set(c echo.Context, n models.Notice) error {
	now := f.now()
	claims := noticeClaims{
		Kind:    n.Kind,
		Message: n.Message,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(flashTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(f.secret)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     flashCookie,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(flashTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Pop returns the queued notice, if any, and clears it. Tampered or expired
// notices are dropped.
func (f *Flasher) Pop(c echo.Context) *models.Notice {
	cookie, err := c.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}
	c.SetCookie(&http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	n, err := f.parse(cookie.Value)
	if err != nil {
		c.Logger().Debugf("flash: dropping notice: %v", err)
		return nil
	}
	return n
}

func (f *Flasher) parse(value string) (*models.Notice, error) {
	claims := &noticeClaims{}
	parser := jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}}
	token, err := parser.ParseWithClaims(value, claims, func(token *jwt.Token) (interface{}, error) {
		return f.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid notice")
	}
	return &models.Notice{Kind: claims.Kind, Message: claims.Message}, nil
}
