package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/rockodragon/wonderwall-backend/internal/service"
)

func newFavoriteHandlerForTest() *FavoriteHandler {
	// Для сценариев ниже сервис не доходит до хранилища.
	return NewFavoriteHandler(service.NewFavoriteService(nil, nil, nil))
}

func TestFavoriteHandler_Toggle_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := newFavoriteHandlerForTest()
	r.POST("/favorites/toggle", handler.Toggle)

	body := `{"target_type":"profile","target_id":"` + uuid.NewString() + `"}`
	req, _ := http.NewRequest("POST", "/favorites/toggle", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFavoriteHandler_Toggle_InvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	userID := uuid.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	})
	handler := newFavoriteHandlerForTest()
	r.POST("/favorites/toggle", handler.Toggle)

	req, _ := http.NewRequest("POST", "/favorites/toggle", strings.NewReader(`{"target_type":"profile","target_id":"not-a-uuid"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFavoriteHandler_Check_AnonymousGetsFalse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := newFavoriteHandlerForTest()
	r.GET("/favorites/check", handler.Check)

	req, _ := http.NewRequest("GET", "/favorites/check?target_type=profile&target_id="+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]bool
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp["favorited"])
}

func TestFavoriteHandler_Count_InvalidTargetGetsZero(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := newFavoriteHandlerForTest()
	r.GET("/favorites/count", handler.Count)

	req, _ := http.NewRequest("GET", "/favorites/count?target_type=bogus&target_id="+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]int
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp["count"])
}

func TestFavoriteHandler_My_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := newFavoriteHandlerForTest()
	r.GET("/favorites/my", handler.My)

	req, _ := http.NewRequest("GET", "/favorites/my", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
