package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"app/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey  = "user_id"  // int64
	CtxStoreIDKey = "store_id" // int64
)

// bearerAuth用のJWT検証ミドルウェア。
// ダッシュボードは店舗単位のマルチテナントなので、
// トークンのstore_idとルートの:storeIdが一致しないリクエストは403。
// トークンの発行自体は認証サービス側の責務。
func AuthStore(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//Authorizationヘッダを取得
			authz := c.Request().Header.Get("Authorization")
			if authz == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//Bearer形式か確認してtokenを抜く
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			rawToken := strings.TrimSpace(parts[1])
			if rawToken == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//JWTをパースして検証する
			token, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
				if t.Method != jwt.SigningMethodHS256 {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(cfg.JWTSecret), nil
			})
			if err != nil || token == nil || !token.Valid {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//claimsを取り出す
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//user_idを取り出す
			userID, err := parseID(claims["sub"])
			if err != nil || userID <= 0 {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//store_idを取り出す
			storeID, err := parseID(claims["store_id"])
			if err != nil || storeID <= 0 {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//ルートの:storeIdと照合
			if raw := c.Param("storeId"); raw != "" {
				routeStoreID, perr := strconv.ParseInt(raw, 10, 64)
				if perr != nil {
					return c.JSON(http.StatusBadRequest, errorJSON("invalid store id"))
				}
				if routeStoreID != storeID {
					return c.JSON(http.StatusForbidden, errorJSON("forbidden"))
				}
			}

			//contextへ保存
			c.Set(CtxUserIDKey, userID)
			c.Set(CtxStoreIDKey, storeID)

			return next(c)
		}
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}

// claimの数値をint64に変換する
func parseID(v interface{}) (int64, error) {
	switch t := v.(type) {
	case float64:
		return int64(t), nil
	case string:
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, errors.New("invalid id claim")
	}
}
