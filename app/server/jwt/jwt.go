package jwt

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"pharmacy-core/app/server/models"
)

// 调用方需要区分这两种失败：过期的令牌可以引导客户端走刷新流程，无效的不行
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

type JWT struct {
	key []byte
}

type User struct {
	ID      uint
	Role    models.Role
	Issued  int64 // Unix second
	Expires int64 // Unix second
}

func New(key string) (*JWT, error) {
	if len(key) == 0 {
		return nil, errors.New("key is empty")
	}

	return &JWT{key: []byte(key)}, nil
}

func (j *JWT) SignToken(user *User) (string, error) {
	// 创建声明
	claims := jwt.MapClaims{
		"id":   user.ID,
		"role": string(user.Role),
		"iat":  user.Issued,
		"exp":  user.Expires,
	}

	// 创建令牌
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	// 签名并返回
	return token.SignedString(j.key)
}

func (j *JWT) ParseUser(tokenString string) (*User, error) {
	// 检查是否有效
	if len(tokenString) == 0 {
		return nil, ErrTokenInvalid
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return j.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	// 匹配内容
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	user := &User{}
	if id, ok := claims["id"].(float64); ok {
		user.ID = uint(id)
	} else {
		return nil, ErrTokenInvalid
	}
	if role, ok := claims["role"].(string); ok && models.Role(role).Valid() {
		user.Role = models.Role(role)
	} else {
		return nil, ErrTokenInvalid
	}
	if iat, ok := claims["iat"].(float64); ok {
		user.Issued = int64(iat)
	}
	if exp, ok := claims["exp"].(float64); ok {
		user.Expires = int64(exp)
	}

	return user, nil
}
