package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dex_data/internal/app/port"
	"dex_data/internal/entity"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrGraphQL is returned when the endpoint answers with a non-empty `errors` array.
var ErrGraphQL = errors.New("graphql error")

type graphQLResponse struct {
	Data   jsoniter.RawMessage   `json:"data"`
	Errors []entity.GraphQLError `json:"errors"`
}

// graphQLClientImpl is the fasthttp implementation of port.GraphQLClient.
type graphQLClientImpl struct {
	client  *fasthttp.Client
	timeout time.Duration
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewGraphQLClient creates a GraphQL client. A nil httpClient gets a default fasthttp client, a nil limiter means unlimited.
func NewGraphQLClient(httpClient *fasthttp.Client, timeout time.Duration, limiter *rate.Limiter, logger *zap.Logger) port.GraphQLClient {
	if httpClient == nil {
		httpClient = &fasthttp.Client{}
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}
	return &graphQLClientImpl{
		client:  httpClient,
		timeout: timeout,
		limiter: limiter,
		logger:  logger.Named("GraphQLClient"),
	}
}

// Query implements the port.GraphQLClient interface.
func (c *graphQLClientImpl) Query(ctx context.Context, endpoint, document string, variables map[string]any, out any) error {
	if endpoint == "" {
		return fmt.Errorf("graphql endpoint cannot be empty")
	}
	body, err := json.Marshal(entity.GraphQLRequest{Query: document, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to marshal graphql request: %w", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait for %s: %w", endpoint, err)
	}

	c.logger.Debug("Sending GraphQL query", zap.String("endpoint", endpoint), zap.Any("variables", variables))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(endpoint)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentTypeBytes([]byte("application/json"))
	req.SetBody(body)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	deadline, ok := ctx.Deadline()
	if !ok || (c.timeout > 0 && time.Until(deadline) > c.timeout) {
		deadline = time.Now().Add(c.timeout)
	}
	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		c.logger.Error("Failed to execute GraphQL request", zap.String("endpoint", endpoint), zap.Error(err))
		return fmt.Errorf("failed to execute request to %s: %w", endpoint, err)
	}

	rawBody := resp.Body()
	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("GraphQL request failed",
			zap.String("endpoint", endpoint),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", rawBody),
		)
		return fmt.Errorf("graphql request to %s failed with status %d: %s", endpoint, resp.StatusCode(), string(rawBody))
	}

	var wrapper graphQLResponse
	if err := json.Unmarshal(rawBody, &wrapper); err != nil {
		c.logger.Error("Failed to unmarshal GraphQL response", zap.String("endpoint", endpoint), zap.ByteString("responseBody", rawBody), zap.Error(err))
		return fmt.Errorf("failed to unmarshal graphql response from %s: %w", endpoint, err)
	}

	if len(wrapper.Errors) > 0 {
		messages := make([]string, 0, len(wrapper.Errors))
		for _, e := range wrapper.Errors {
			messages = append(messages, e.Message)
		}
		c.logger.Warn("GraphQL response carried errors", zap.String("endpoint", endpoint), zap.Strings("errors", messages))
		return fmt.Errorf("%w: %s", ErrGraphQL, strings.Join(messages, "; "))
	}

	if out == nil || len(wrapper.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(wrapper.Data, out); err != nil {
		return fmt.Errorf("failed to decode graphql data from %s: %w", endpoint, err)
	}
	return nil
}
