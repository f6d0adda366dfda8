//go:build unit

package api_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"qrcard/internal/domain/issuance"
	"qrcard/internal/handler/api"
	resdto "qrcard/internal/handler/dto/response"
	"qrcard/internal/pkg/errs"
	"qrcard/internal/usecase/commands"
	"qrcard/tests/common/builder"
	"qrcard/tests/common/httptest"
	"qrcard/tests/common/testutil"
	commandsmock "qrcard/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type IssuanceHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockIssuanceCommands
	handler      *api.IssuanceHandler
}

func (s *IssuanceHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockIssuanceCommands(s.mockCtrl)
	s.handler = api.NewIssuanceHandler(s.mockCommands, commands.IssuanceSettings{Policy: issuance.DefaultPolicy()})

	s.router.POST("/api/cards/:id/issuances", s.handler.Issue)
}

func (s *IssuanceHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestIssuanceHandlerSuite(t *testing.T) {
	suite.Run(t, new(IssuanceHandlerTestSuite))
}

func (s *IssuanceHandlerTestSuite) TestIssue() {
	b := builder.NewIssuanceBuilder()
	url := "/api/cards/" + b.CardID.String() + "/issuances"
	reqBody := b.BuildRequestDTO()

	s.Run("success: 201 with run counts", func() {
		s.mockCommands.EXPECT().Issue(gomock.Any(), b.BuildDomainRequest(), gomock.Nil()).
			Return(b.BuildResult(3), nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var body resdto.IssuanceResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(3, body.Requested)
		s.Equal(3, body.Minted)
		s.Equal(2, body.Chunks)
		s.Equal(b.CardID, body.CardID)
		s.Equal(2.0, body.AverageRate)
		s.Empty(body.Segments)
	})

	s.Run("success: omitted chunk size uses the configured default", func() {
		minimal := map[string]any{"quantity": 5}
		want := issuance.Request{CardID: b.CardID, Quantity: 5, ChunkSize: issuance.DefaultPolicy().DefaultChunkSize}
		s.mockCommands.EXPECT().Issue(gomock.Any(), want, gomock.Nil()).
			Return(b.BuildResult(5), nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, minimal, "")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, nil)
	})

	s.Run("error: 400 on invalid body", func() {
		cases := []struct {
			name   string
			mutate func(map[string]any)
		}{
			{name: "missing quantity", mutate: testutil.Field("quantity", nil)},
			{name: "zero quantity", mutate: testutil.Field("quantity", 0)},
			{name: "negative chunk size", mutate: testutil.Field("chunk_size", -1)},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, testutil.DtoMap(s.T(), reqBody, tc.mutate), "")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
			})
		}
	})

	s.Run("error: 400 on malformed card id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/cards/xyz/issuances", reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid card id")
	})

	s.Run("error: usecase rejections", func() {
		cases := []struct {
			name   string
			err    error
			status int
			msg    string
		}{
			{name: "quantity over policy", err: issuance.ErrInvalidQuantity, status: http.StatusBadRequest, msg: "Invalid issuance request"},
			{name: "archives without images", err: issuance.ErrArchivesNeedImages, status: http.StatusBadRequest, msg: "Invalid issuance request"},
			{name: "unknown card", err: errs.Wrap(commands.ErrCardNotFound, b.CardID.String()), status: http.StatusNotFound, msg: "Card not found"},
			{name: "export setup failure", err: errs.Mark(errors.New("disk full"), errs.ErrIssuanceFailed), status: http.StatusInternalServerError, msg: "Issuance failed"},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Issue(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, tc.err)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.status, tc.msg)
			})
		}
	})

	s.Run("error: 500 carries partial counts", func() {
		partial := b.BuildResult(2)
		s.mockCommands.EXPECT().Issue(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ issuance.Request, _ commands.ProgressObserver) (*issuance.Result, error) {
				return partial, &commands.IssuanceError{Result: partial}
			})

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Issuance failed")

		var body struct {
			Detail resdto.IssuanceResponse `json:"detail"`
		}
		s.Require().NoError(httptest.DecodeResponseBody(s.T(), rec.Body, &body))
		s.Equal(2, body.Detail.Minted)
		s.Equal(3, body.Detail.Requested)
	})
}
