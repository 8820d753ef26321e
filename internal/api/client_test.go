package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

// MockRoundTripper allows us to mock the HTTP response
type MockRoundTripper func(req *http.Request) *http.Response

func (f MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

type MockRoundTripperWithError func(req *http.Request) (*http.Response, error)

func (f MockRoundTripperWithError) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(rt http.RoundTripper, opts ...Option) *Client {
	opts = append(opts, WithHTTPClient(&http.Client{Transport: rt}))
	return NewClient("http://backend.test/api", opts...)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

func TestClient_Get(t *testing.T) {
	t.Run("Unwraps envelope data", func(t *testing.T) {
		client := newTestClient(MockRoundTripper(func(req *http.Request) *http.Response {
			assert.Equal(t, "GET", req.Method)
			assert.Equal(t, "http://backend.test/api/orders/mine", req.URL.String())
			assert.NotEmpty(t, req.Header.Get("X-Request-ID"))
			return jsonResponse(http.StatusOK, `{"data":{"name":"Tulsi Drops"},"message":"ok"}`)
		}))

		var out struct {
			Name string `json:"name"`
		}
		err := client.Get(context.Background(), "/orders/mine", &out)
		assert.NoError(t, err)
		assert.Equal(t, "Tulsi Drops", out.Name)
	})

	t.Run("Decodes bare body when no envelope", func(t *testing.T) {
		client := newTestClient(MockRoundTripper(func(req *http.Request) *http.Response {
			return jsonResponse(http.StatusOK, `{"key":"rzp_test_abc"}`)
		}))

		var out struct {
			Key string `json:"key"`
		}
		err := client.Get(context.Background(), "/payment/getkey", &out)
		assert.NoError(t, err)
		assert.Equal(t, "rzp_test_abc", out.Key)
	})
}

func TestClient_BearerToken(t *testing.T) {
	t.Run("Attached when source returns one", func(t *testing.T) {
		client := newTestClient(MockRoundTripper(func(req *http.Request) *http.Response {
			assert.Equal(t, "Bearer tok-123", req.Header.Get("Authorization"))
			return jsonResponse(http.StatusOK, `{"data":null}`)
		}), WithTokenSource(func() string { return "tok-123" }))

		assert.NoError(t, client.Get(context.Background(), "/orders/mine", nil))
	})

	t.Run("Omitted when source is empty", func(t *testing.T) {
		client := newTestClient(MockRoundTripper(func(req *http.Request) *http.Response {
			assert.Empty(t, req.Header.Get("Authorization"))
			return jsonResponse(http.StatusOK, `{"data":null}`)
		}), WithTokenSource(func() string { return "" }))

		assert.NoError(t, client.Get(context.Background(), "/products", nil))
	})
}

func TestClient_ServerRejection(t *testing.T) {
	t.Run("Message surfaced verbatim", func(t *testing.T) {
		client := newTestClient(MockRoundTripper(func(req *http.Request) *http.Response {
			return jsonResponse(http.StatusBadRequest, `{"message":"Out of stock"}`)
		}))

		err := client.Post(context.Background(), "/orders", map[string]string{}, nil)
		assert.Error(t, err)

		var apiErr *Error
		assert.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusBadRequest, apiErr.Status)
		assert.Equal(t, "Out of stock", apiErr.Message)
		assert.False(t, apiErr.Transport)
		assert.False(t, IsTransport(err))
		assert.Equal(t, "Out of stock", UserMessage(err))
	})

	t.Run("Generic message when body has none", func(t *testing.T) {
		client := newTestClient(MockRoundTripper(func(req *http.Request) *http.Response {
			return jsonResponse(http.StatusInternalServerError, ``)
		}))

		err := client.Get(context.Background(), "/orders/mine", nil)
		var apiErr *Error
		assert.True(t, errors.As(err, &apiErr))
		assert.Equal(t, "request failed with status 500", apiErr.Message)
	})
}

func TestClient_TransportFailure(t *testing.T) {
	client := newTestClient(MockRoundTripperWithError(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	}))

	err := client.Get(context.Background(), "/products", nil)
	assert.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.Equal(t, genericTransportMessage, UserMessage(err))

	snap := client.Stats()
	assert.Equal(t, uint64(1), snap.Requests)
	assert.Equal(t, uint64(1), snap.TransportErrors)
}

func TestClient_Upload(t *testing.T) {
	client := newTestClient(MockRoundTripper(func(req *http.Request) *http.Response {
		assert.Equal(t, "POST", req.Method)
		assert.Contains(t, req.Header.Get("Content-Type"), "multipart/form-data")
		return jsonResponse(http.StatusOK, `{"data":{"url":"https://cdn.test/x.jpg","public_id":"x"}}`)
	}))

	var out struct {
		URL      string `json:"url"`
		PublicID string `json:"public_id"`
	}
	err := client.Upload(context.Background(), "/upload/image", "image", "x.jpg",
		bytes.NewBufferString("fake-image-bytes"), &out)
	assert.NoError(t, err)
	assert.Equal(t, "https://cdn.test/x.jpg", out.URL)
}
