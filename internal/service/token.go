package service

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Desorr/dropshipping-store/internal/models"
)

const (
	AccessTTL  = 15 * time.Minute
	RefreshTTL = 7 * 24 * time.Hour
)

type TokenService struct {
	DB            *gorm.DB
	JWTSecret     []byte
	RefreshSecret []byte
}

func (t *TokenService) SignAccessToken(userID uint, role string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  time.Now().Add(AccessTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.JWTSecret)
}

func (t *TokenService) SignRefreshToken(userID uint, role string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  time.Now().Add(RefreshTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.RefreshSecret)
	if err != nil {
		return "", err
	}

	row := models.RefreshToken{
		Token:     token,
		UserID:    userID,
		ExpiresAt: time.Now().Add(RefreshTTL),
	}
	if err := t.DB.Create(&row).Error; err != nil {
		return "", fmt.Errorf("save refresh token: %w", err)
	}
	return token, nil
}

func (t *TokenService) RevokeRefresh(token string) error {
	if err := t.DB.Model(&models.RefreshToken{}).
		Where("token = ?", token).
		Update("revoked", true).Error; err != nil {
		return fmt.Errorf("DB error: %w", err)
	}
	return nil
}

func (t *TokenService) RotateToken(rawToken string) (string, string, error) {
	claims, err := t.validateRefresh(rawToken)
	if err != nil {
		return "", "", err
	}

	subRaw, ok := claims["sub"].(float64)
	if !ok {
		return "", "", errors.New("invalid subject claim")
	}
	userID := uint(subRaw)
	role, _ := claims["role"].(string)

	newAccess, err := t.SignAccessToken(userID, role)
	if err != nil {
		return "", "", err
	}
	newRefresh, err := t.SignRefreshToken(userID, role)
	if err != nil {
		return "", "", err
	}
	if err := t.RevokeRefresh(rawToken); err != nil {
		return "", "", err
	}

	return newAccess, newRefresh, nil
}

func (t *TokenService) validateRefresh(rawToken string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(rawToken, func(j *jwt.Token) (interface{}, error) {
		if _, ok := j.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", j.Header["alg"])
		}
		return t.RefreshSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid refresh token")
	}

	var row models.RefreshToken
	if err := t.DB.Where("token = ?", rawToken).First(&row).Error; err != nil {
		return nil, errors.New("unknown refresh token")
	}
	if row.Revoked || time.Now().After(row.ExpiresAt) {
		return nil, errors.New("refresh token expired or revoked")
	}

	return token.Claims.(jwt.MapClaims), nil
}

// AutoRefreshMiddleware admits requests with a valid access cookie and
// transparently rotates an expired one from the refresh cookie.
func (t *TokenService) AutoRefreshMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return t.autoRefresh(next, "")
}

func (t *TokenService) AutoRefreshMiddlewareAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return t.autoRefresh(next, "admin")
}

func (t *TokenService) autoRefresh(next echo.HandlerFunc, requiredRole string) echo.HandlerFunc {
	return func(c echo.Context) error {
		asCookie, err := c.Cookie("accessToken")
		if err == nil {
			token, err := jwt.Parse(asCookie.Value, func(j *jwt.Token) (interface{}, error) {
				if _, ok := j.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", j.Header["alg"])
				}
				return t.JWTSecret, nil
			})
			if err == nil && token.Valid {
				claims := token.Claims.(jwt.MapClaims)
				if err := setUserContext(c, claims, requiredRole); err != nil {
					return err
				}
				return next(c)
			}
			if !errors.Is(err, jwt.ErrTokenExpired) {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
			}
		}

		rfCookie, err := c.Cookie("refreshToken")
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
		}
		newAccess, newRefresh, err := t.RotateToken(rfCookie.Value)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "cannot rotate token: "+err.Error())
		}

		c.SetCookie(CreateCookie("accessToken", newAccess, "/", time.Now().Add(AccessTTL)))
		c.SetCookie(CreateCookie("refreshToken", newRefresh, "/", time.Now().Add(RefreshTTL)))

		token, _ := jwt.Parse(newAccess, func(j *jwt.Token) (interface{}, error) {
			return t.JWTSecret, nil
		})
		if err := setUserContext(c, token.Claims.(jwt.MapClaims), requiredRole); err != nil {
			return err
		}
		return next(c)
	}
}

func setUserContext(c echo.Context, claims jwt.MapClaims, requiredRole string) error {
	subRaw, ok := claims["sub"].(float64)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid subject claim")
	}
	role, _ := claims["role"].(string)
	if requiredRole != "" && role != requiredRole {
		return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
	}
	c.Set("userID", uint(subRaw))
	c.Set("role", role)
	return nil
}

// CurrentUserID reads the user id the auth middleware stored on the context.
func CurrentUserID(c echo.Context) (uint, error) {
	id, ok := c.Get("userID").(uint)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	return id, nil
}

func CreateCookie(name, value, path string, expTime time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  expTime,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}
