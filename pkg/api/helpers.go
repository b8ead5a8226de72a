package api

import (
	"errors"
	"time"

	jwt "github.com/appleboy/gin-jwt/v2"
	"github.com/gin-gonic/gin"
	jwtgo "github.com/golang-jwt/jwt/v4"
)

var (
	// ErrInvalidSigningAlgorithm indicates signing algorithm is invalid, needs to be HS256
	ErrInvalidSigningAlgorithm = errors.New("invalid signing algorithm")
)

// GenerateJWT creates an HS256 token accepted by the agent's http api
func GenerateJWT(config *BuildAgentConfig, now time.Time, expiry time.Time, optionalClaims jwtgo.MapClaims) (tokenString string, err error) {

	// Create the token
	token := jwtgo.New(jwtgo.SigningMethodHS256)
	claims := token.Claims.(jwtgo.MapClaims)

	// set required claims
	claims["exp"] = expiry.Unix()
	claims["orig_iat"] = now.Unix()

	for key, value := range optionalClaims {
		claims[key] = value
	}

	// sign the token
	return token.SignedString([]byte(config.Auth.JWT.Key))
}

func ValidateJWT(config *BuildAgentConfig, tokenString string) (token *jwtgo.Token, err error) {
	return jwtgo.Parse(tokenString, func(t *jwtgo.Token) (interface{}, error) {
		if jwtgo.SigningMethodHS256 != t.Method {
			return nil, ErrInvalidSigningAlgorithm
		}
		return []byte(config.Auth.JWT.Key), nil
	})
}

// RequestTokenIsValid checks that the jwt middleware stored a non-empty identity
func RequestTokenIsValid(c *gin.Context) bool {

	claims := jwt.ExtractClaims(c)
	val, ok := claims[jwt.IdentityKey]
	if !ok {
		return false
	}
	identity, ok := val.(string)
	if !ok {
		return false
	}

	return identity != ""
}

// StringArrayContains returns true if value is an element of array
func StringArrayContains(array []string, value string) bool {
	for _, v := range array {
		if v == value {
			return true
		}
	}
	return false
}
