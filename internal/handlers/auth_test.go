// internal/handlers/auth_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/commercekit/catalog-backend/internal/config"
	"github.com/commercekit/catalog-backend/internal/utils"
)

type AuthTestSuite struct {
	suite.Suite
	router *gin.Engine
}

func (suite *AuthTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	suite.Require().NoError(err)

	cfg := &config.Config{
		JWT: config.JWTConfig{SecretKey: "test-secret", AccessTokenTTL: 1},
		Admin: config.AdminConfig{
			Username:     "admin",
			PasswordHash: string(hash),
		},
	}
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	authHandler := NewAuthHandler(cfg)
	suite.router = gin.New()
	suite.router.POST("/auth/login", authHandler.Login)
}

func (suite *AuthTestSuite) login(body map[string]interface{}) *httptest.ResponseRecorder {
	jsonData, _ := json.Marshal(body)
	req, _ := http.NewRequest("POST", "/auth/login", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *AuthTestSuite) TestLoginSuccess() {
	w := suite.login(map[string]interface{}{
		"username": "admin",
		"password": "correct-horse",
	})

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), response["success"].(bool))

	data := response["data"].(map[string]interface{})
	token := data["token"].(string)
	assert.NotEmpty(suite.T(), token)

	claims, err := utils.ValidateJWT(token)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "admin", claims.Username)
	assert.Equal(suite.T(), "admin", claims.Role)
}

func (suite *AuthTestSuite) TestLoginWrongPassword() {
	w := suite.login(map[string]interface{}{
		"username": "admin",
		"password": "battery-staple",
	})

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *AuthTestSuite) TestLoginUnknownUsername() {
	w := suite.login(map[string]interface{}{
		"username": "root",
		"password": "correct-horse",
	})

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *AuthTestSuite) TestLoginMissingFields() {
	w := suite.login(map[string]interface{}{
		"username": "admin",
	})

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func TestAuthSuite(t *testing.T) {
	suite.Run(t, new(AuthTestSuite))
}
