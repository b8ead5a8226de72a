package api

import (
	"testing"
	"time"

	jwtgo "github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
)

func TestGenerateJWT(t *testing.T) {
	t.Run("ReturnsTokenThatValidatesWithSameKey", func(t *testing.T) {

		config := &BuildAgentConfig{Auth: &AuthConfig{JWT: &JWTConfig{Key: "za4BeKbXyMJVsX6gLU2AF352DEu9J5qE"}}}
		now := time.Now()

		// act
		tokenString, err := GenerateJWT(config, now, now.Add(time.Hour), jwtgo.MapClaims{"id": "operator"})

		assert.Nil(t, err)
		token, err := ValidateJWT(config, tokenString)
		if assert.Nil(t, err) {
			assert.True(t, token.Valid)
			assert.Equal(t, "operator", token.Claims.(jwtgo.MapClaims)["id"])
		}
	})

	t.Run("ReturnsErrorWhenValidatingWithDifferentKey", func(t *testing.T) {

		config := &BuildAgentConfig{Auth: &AuthConfig{JWT: &JWTConfig{Key: "za4BeKbXyMJVsX6gLU2AF352DEu9J5qE"}}}
		otherConfig := &BuildAgentConfig{Auth: &AuthConfig{JWT: &JWTConfig{Key: "SazbwMf3NZxVVbBqQHebPcXCqrVn3DDp"}}}
		now := time.Now()
		tokenString, err := GenerateJWT(config, now, now.Add(time.Hour), nil)
		assert.Nil(t, err)

		// act
		_, err = ValidateJWT(otherConfig, tokenString)

		assert.NotNil(t, err)
	})

	t.Run("ReturnsErrorForExpiredToken", func(t *testing.T) {

		config := &BuildAgentConfig{Auth: &AuthConfig{JWT: &JWTConfig{Key: "za4BeKbXyMJVsX6gLU2AF352DEu9J5qE"}}}
		now := time.Now().Add(-2 * time.Hour)
		tokenString, err := GenerateJWT(config, now, now.Add(time.Hour), nil)
		assert.Nil(t, err)

		// act
		_, err = ValidateJWT(config, tokenString)

		assert.NotNil(t, err)
	})
}

func TestStringArrayContains(t *testing.T) {
	t.Run("ReturnsTrueIfValueIsInArray", func(t *testing.T) {

		// act
		contains := StringArrayContains([]string{"a", "b"}, "b")

		assert.True(t, contains)
	})

	t.Run("ReturnsFalseIfValueIsNotInArray", func(t *testing.T) {

		// act
		contains := StringArrayContains([]string{"a", "b"}, "c")

		assert.False(t, contains)
	})
}
