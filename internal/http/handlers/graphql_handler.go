package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"

	"github.com/ignatzorin/activity-favorites/internal/graph"
	"github.com/ignatzorin/activity-favorites/internal/http/handlers/common"
	"github.com/ignatzorin/activity-favorites/internal/pkg/apperror"
	"github.com/ignatzorin/activity-favorites/internal/service"
)

// GraphQLHandler выполняет запросы к GraphQL схеме.
type GraphQLHandler struct {
	schema graphql.Schema
	cookie common.AuthCookie
}

func NewGraphQLHandler(schema graphql.Schema, cookie common.AuthCookie) *GraphQLHandler {
	return &GraphQLHandler{schema: schema, cookie: cookie}
}

type graphQLRequest struct {
	Query         string                 `json:"query" form:"query"`
	OperationName string                 `json:"operationName" form:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// cookieSession выставляет cookie с токеном в рамках текущего запроса.
type cookieSession struct {
	c      *gin.Context
	cookie common.AuthCookie
}

func (s cookieSession) SetAuthToken(token *service.AccessToken) { s.cookie.Set(s.c, token) }

func (s cookieSession) ClearAuthToken() { s.cookie.Clear(s.c) }

// Handle обслуживает POST и GET /graphql.
func (h *GraphQLHandler) Handle(c *gin.Context) {
	var req graphQLRequest
	var err error
	if c.Request.Method == http.MethodGet {
		err = c.ShouldBindQuery(&req)
	} else {
		err = c.ShouldBindJSON(&req)
	}
	if err != nil || req.Query == "" {
		common.RespondError(c, apperror.BadRequest("тело GraphQL запроса должно содержать query"))
		return
	}

	ctx := c.Request.Context()
	if userID, err := common.CurrentUserID(c); err == nil {
		ctx = graph.WithViewer(ctx, userID)
	}
	ctx = graph.WithSession(ctx, cookieSession{c: c, cookie: h.cookie})
	ctx = graph.WithClientIP(ctx, c.ClientIP())

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})
	c.JSON(http.StatusOK, result)
}
