//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"qrcard/internal/handler/api"
	resdto "qrcard/internal/handler/dto/response"
	"qrcard/internal/pkg/errs"
	"qrcard/internal/usecase/commands"
	"qrcard/internal/usecase/queries"
	"qrcard/tests/common/builder"
	"qrcard/tests/common/httptest"
	"qrcard/tests/common/testutil"
	commandsmock "qrcard/tests/mock/commands"
	queriesmock "qrcard/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type CardHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockCardCommands
	mockQueries  *queriesmock.MockCardQueries
	handler      *api.CardHandler
}

func (s *CardHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockCardCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockCardQueries(s.mockCtrl)
	s.handler = api.NewCardHandler(s.mockCommands, s.mockQueries)

	s.router.POST("/api/cards", s.handler.Create)
	s.router.GET("/api/cards", s.handler.List)
	s.router.GET("/api/cards/:id", s.handler.Get)
	s.router.GET("/api/stats", s.handler.Stats)
}

func (s *CardHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestCardHandlerSuite(t *testing.T) {
	suite.Run(t, new(CardHandlerTestSuite))
}

func (s *CardHandlerTestSuite) TestCreate() {
	url := "/api/cards"
	b := builder.NewCardBuilder()
	reqBody := b.BuildCreateRequestDTO()
	view := b.BuildView()

	s.Run("success: 201 with location", func() {
		s.mockCommands.EXPECT().CreateCard(gomock.Any(), commands.CreateCardRequest{
			Name:        b.Name,
			CompanyName: b.CompanyName,
			Phone:       b.Phone,
		}).Return(b.ID, nil)
		s.mockQueries.EXPECT().GetCard(gomock.Any(), b.ID).Return(view, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var body resdto.CardResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(b.ID, body.ID)
		s.Equal("Acme Corp", body.CompanyName)
		s.Require().NotNil(body.Phone)
		s.Equal(*b.Phone, *body.Phone)
		s.True(b.CreatedAt.Equal(body.CreatedAt))
		httptest.AssertHeaders(s.T(), rec, map[string]string{"Location": "/api/cards/" + b.ID.String()})
	})

	s.Run("success: blank phone is dropped", func() {
		s.mockCommands.EXPECT().CreateCard(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, req commands.CreateCardRequest) (uuid.UUID, error) {
				s.Nil(req.Phone)
				return b.ID, nil
			})
		s.mockQueries.EXPECT().GetCard(gomock.Any(), b.ID).Return(view, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, testutil.DtoMap(s.T(), reqBody, testutil.Field("phone", "  ")), "")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, nil)
	})

	s.Run("error: 400 on validation errors", func() {
		cases := []struct {
			name   string
			mutate func(map[string]any)
		}{
			{name: "missing company_name", mutate: testutil.Field("company_name", nil)},
			{name: "company_name too long", mutate: testutil.Field("company_name", strings.Repeat("a", 201))},
			{name: "phone too long", mutate: testutil.Field("phone", strings.Repeat("1", 51))},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, testutil.DtoMap(s.T(), reqBody, tc.mutate), "")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
			})
		}
	})

	s.Run("error: maps usecase errors", func() {
		cases := []struct {
			name   string
			err    error
			status int
		}{
			{name: "domain validation", err: errs.Mark(errs.New("company name required"), errs.ErrInvalidArgument), status: http.StatusBadRequest},
			{name: "store failure", err: errors.New("db down"), status: http.StatusInternalServerError},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().CreateCard(gomock.Any(), gomock.Any()).Return(uuid.Nil, tc.err)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.status, "Create card failed")
			})
		}
	})
}

func (s *CardHandlerTestSuite) TestGet() {
	b := builder.NewCardBuilder().With(func(b *builder.CardBuilder) { b.ViewCount = 7 })

	s.Run("success", func() {
		s.mockQueries.EXPECT().GetCard(gomock.Any(), b.ID).Return(b.BuildView(), nil)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/cards/"+b.ID.String(), nil, "")

		var body resdto.CardResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(int64(7), body.ViewCount)
	})

	s.Run("error: 400 on malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/cards/not-a-uuid", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid id")
	})

	s.Run("error: 404 when missing", func() {
		s.mockQueries.EXPECT().GetCard(gomock.Any(), b.ID).Return(nil, queries.ErrCardNotFound)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/cards/"+b.ID.String(), nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Card not found")
	})
}

func (s *CardHandlerTestSuite) TestList() {
	first := builder.NewCardBuilder().With(func(b *builder.CardBuilder) { b.TokenCount = 3; b.SpentCount = 1 })
	second := builder.NewCardBuilder().With(func(b *builder.CardBuilder) { b.CompanyName = "Globex" })

	s.Run("success: first page with next cursor", func() {
		next := &queries.Cursor{After: "opaque-cursor"}
		s.mockQueries.EXPECT().ListCards(gomock.Any(), (*queries.Cursor)(nil), 2).
			Return([]*queries.CardListItem{first.BuildListItem(), second.BuildListItem()}, next, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/cards?limit=2", nil, "")

		var body resdto.CardListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Require().Len(body.Cards, 2)
		s.Equal(int64(3), body.Cards[0].TokenCount)
		s.Equal(int64(1), body.Cards[0].SpentCount)
		s.Equal("Globex", body.Cards[1].CompanyName)
		s.Equal("opaque-cursor", body.NextCursor)
	})

	s.Run("success: cursor is forwarded and default limit applies", func() {
		s.mockQueries.EXPECT().ListCards(gomock.Any(), &queries.Cursor{After: "abc"}, queries.DefaultListLimit).
			Return([]*queries.CardListItem{}, nil, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/cards?after=abc", nil, "")

		var body map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal([]any{}, body["cards"])
		s.NotContains(body, "next_cursor")
	})

	s.Run("error: 400 on malformed limit", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/cards?limit=ten", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid limit")
	})

	s.Run("error: 400 on malformed cursor", func() {
		s.mockQueries.EXPECT().ListCards(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, nil, queries.ErrInvalidCursor)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/cards?after=bad-cursor", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "List cards failed")
	})
}

func (s *CardHandlerTestSuite) TestStats() {
	s.Run("success", func() {
		s.mockQueries.EXPECT().Stats(gomock.Any()).
			Return(&queries.StoreStats{Cards: 1, Tokens: 3, FreshTokens: 1, SpentTokens: 2}, nil)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/stats", nil, "")

		var body resdto.StatsResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(resdto.StatsResponse{Cards: 1, Tokens: 3, FreshTokens: 1, SpentTokens: 2}, body)
	})

	s.Run("error: 500 on store failure", func() {
		s.mockQueries.EXPECT().Stats(gomock.Any()).Return(nil, errors.New("db down"))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/stats", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Failed to get stats")
	})
}
