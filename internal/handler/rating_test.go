package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"clipnest/internal/apperr"
	"clipnest/internal/middleware"
	"clipnest/internal/model"
	"clipnest/internal/service"
	"clipnest/pkg/logger"
	"clipnest/pkg/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.Log = logrus.New()
	logger.Log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// asUser 模拟LoadSession的效果，直接把用户快照塞进Context
func asUser(user session.CurrentUser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user.ID != 0 {
			c.Set(middleware.ContextUserKey, user)
		}
		c.Next()
	}
}

type stubRatingService struct {
	toggleState *service.RatingState
	toggleErr   error

	gotVideoID uint64
	gotUserID  uint64
	gotType    string
}

func (s *stubRatingService) Toggle(videoID, userID uint64, ratingType string) (*service.RatingState, error) {
	s.gotVideoID, s.gotUserID, s.gotType = videoID, userID, ratingType
	return s.toggleState, s.toggleErr
}

func (s *stubRatingService) State(videoID, userID uint64) (*service.RatingState, error) {
	return &service.RatingState{LikeCount: 3, DislikeCount: 1}, nil
}

func (s *stubRatingService) RateStars(videoID, userID uint64, score uint8) (*service.StarSummary, error) {
	if score > 5 {
		return nil, apperr.Validation("星级评分必须在1到5之间")
	}
	return &service.StarSummary{Average: float64(score), Count: 1, UserScore: score}, nil
}

func (s *stubRatingService) Stars(videoID, userID uint64) (*service.StarSummary, error) {
	return &service.StarSummary{Average: 4.5, Count: 2}, nil
}

func ratingRouter(stub *stubRatingService, user session.CurrentUser) *gin.Engine {
	r := gin.New()
	r.Use(asUser(user))
	h := NewRatingHandler(stub)
	r.POST("/videos/:video_id/ratings", h.Toggle)
	r.GET("/videos/:video_id/ratings", h.State)
	r.POST("/videos/:video_id/stars", h.RateStars)
	r.GET("/videos/:video_id/stars", h.Stars)
	return r
}

func TestRatingHandlerToggle(t *testing.T) {
	alice := session.CurrentUser{ID: 7, Username: "alice", Role: model.RoleRegisteredUser}

	t.Run("正常切换", func(t *testing.T) {
		stub := &stubRatingService{toggleState: &service.RatingState{LikeCount: 1, UserRating: model.RatingLike}}
		r := ratingRouter(stub, alice)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/videos/42/ratings", strings.NewReader(`{"type":"LIKE"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, uint64(42), stub.gotVideoID)
		assert.Equal(t, uint64(7), stub.gotUserID)
		assert.Equal(t, "LIKE", stub.gotType)

		var body struct {
			Data service.RatingState `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, uint64(1), body.Data.LikeCount)
	})

	t.Run("未登录返回401", func(t *testing.T) {
		r := ratingRouter(&stubRatingService{}, session.CurrentUser{})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/videos/42/ratings", strings.NewReader(`{"type":"LIKE"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("缺少type返回400", func(t *testing.T) {
		r := ratingRouter(&stubRatingService{}, alice)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/videos/42/ratings", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("非法视频ID返回400", func(t *testing.T) {
		r := ratingRouter(&stubRatingService{}, alice)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/videos/abc/ratings", strings.NewReader(`{"type":"LIKE"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRatingHandlerErrorTranslation(t *testing.T) {
	alice := session.CurrentUser{ID: 7, Username: "alice", Role: model.RoleRegisteredUser}
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"NotFound映射404", apperr.NotFound("视频不存在"), http.StatusNotFound},
		{"Validation映射400", apperr.Validation("无效的评分类型"), http.StatusBadRequest},
		{"Conflict映射409", apperr.Conflict("冲突"), http.StatusConflict},
		{"内部错误映射500且不透出细节", apperr.Internal(assert.AnError), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := ratingRouter(&stubRatingService{toggleErr: tc.err}, alice)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/videos/42/ratings", strings.NewReader(`{"type":"LIKE"}`))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.code, w.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			if tc.code == http.StatusInternalServerError {
				assert.Equal(t, "内部错误", body.Error)
				assert.NotContains(t, body.Error, assert.AnError.Error())
			} else {
				assert.NotEmpty(t, body.Error)
			}
		})
	}
}

func TestRatingHandlerState(t *testing.T) {
	// 匿名也能查计数
	r := ratingRouter(&stubRatingService{}, session.CurrentUser{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/videos/42/ratings", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data service.RatingState `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, uint64(3), body.Data.LikeCount)
}
