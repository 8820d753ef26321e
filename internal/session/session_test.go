package session

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"herbal-store-client/internal/api"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

type roundTripFunc func(req *http.Request) *http.Response

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

func newStore(rt roundTripFunc) *Store {
	var store *Store
	client := api.NewClient("http://backend.test/api",
		api.WithHTTPClient(&http.Client{Transport: rt}),
		api.WithTokenSource(func() string {
			if store == nil {
				return ""
			}
			return store.Token()
		}),
	)
	store = NewStore(client)
	return store
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	signed, err := tok.SignedString([]byte("unit-test-secret"))
	assert.NoError(t, err)
	return signed
}

func TestStore_Login(t *testing.T) {
	t.Run("Success stores token and profile", func(t *testing.T) {
		store := newStore(func(req *http.Request) *http.Response {
			assert.Equal(t, "/api/auth/login", req.URL.Path)
			body := `{"data":{"user":{"_id":"u1","name":"Asha","email":"asha@example.com","role":"admin"},"token":"tok-1"}}`
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(bytes.NewBufferString(body)),
				Header:     make(http.Header),
			}
		})

		user, err := store.Login(context.Background(), "asha@example.com", "secret")
		assert.NoError(t, err)
		assert.Equal(t, "Asha", user.Name)
		assert.True(t, user.IsAdmin())
		assert.Equal(t, "tok-1", store.Token())
		assert.True(t, store.LoggedIn())
	})

	t.Run("Missing credentials rejected locally", func(t *testing.T) {
		store := newStore(func(req *http.Request) *http.Response {
			t.Fatal("no request expected")
			return nil
		})

		_, err := store.Login(context.Background(), "", "")
		assert.ErrorIs(t, err, ErrCredentialsRequired)
	})

	t.Run("Server rejection leaves session empty", func(t *testing.T) {
		store := newStore(func(req *http.Request) *http.Response {
			return &http.Response{
				StatusCode: http.StatusUnauthorized,
				Body:       io.NopCloser(bytes.NewBufferString(`{"message":"Invalid credentials"}`)),
				Header:     make(http.Header),
			}
		})

		_, err := store.Login(context.Background(), "asha@example.com", "wrong")
		assert.EqualError(t, err, "Invalid credentials")
		assert.False(t, store.LoggedIn())
		assert.Nil(t, store.CurrentUser())
	})
}

func TestStore_UpdateProfile(t *testing.T) {
	t.Run("Success replaces the stored projection", func(t *testing.T) {
		store := newStore(func(req *http.Request) *http.Response {
			assert.Equal(t, "PUT", req.Method)
			assert.Equal(t, "/api/auth/profile", req.URL.Path)
			assert.Equal(t, "Bearer tok-1", req.Header.Get("Authorization"))

			body, _ := io.ReadAll(req.Body)
			assert.Contains(t, string(body), `"address":{"street":"14 Station Road"`)
			// Untouched fields stay out of the payload.
			assert.NotContains(t, string(body), `"password"`)
			assert.NotContains(t, string(body), `"name"`)

			resp := `{"data":{"_id":"u1","name":"Asha","email":"asha@example.com","phone":"9999999999",` +
				`"address":{"street":"14 Station Road","city":"Bilaspur","state":"CG","pincode":"495001","country":"India"}}}`
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(bytes.NewBufferString(resp)),
				Header:     make(http.Header),
			}
		})
		store.set("tok-1", User{ID: "u1", Name: "Asha"})

		user, err := store.UpdateProfile(context.Background(), ProfileUpdate{
			Address: &Address{Street: "14 Station Road", City: "Bilaspur", State: "CG",
				Pincode: "495001", Country: "India"},
		})
		assert.NoError(t, err)
		assert.Equal(t, "14 Station Road", user.Address.Street)
		assert.Equal(t, "14 Station Road", store.CurrentUser().Address.Street)
		assert.Equal(t, "tok-1", store.Token())
	})

	t.Run("Requires a session", func(t *testing.T) {
		store := newStore(func(req *http.Request) *http.Response {
			t.Fatal("no request expected")
			return nil
		})

		_, err := store.UpdateProfile(context.Background(), ProfileUpdate{Name: "Asha"})
		assert.ErrorIs(t, err, ErrNotLoggedIn)
	})

	t.Run("Server rejection keeps the old profile", func(t *testing.T) {
		store := newStore(func(req *http.Request) *http.Response {
			return &http.Response{
				StatusCode: http.StatusConflict,
				Body:       io.NopCloser(bytes.NewBufferString(`{"message":"Email already in use"}`)),
				Header:     make(http.Header),
			}
		})
		store.set("tok-1", User{Name: "Asha", Email: "asha@example.com"})

		_, err := store.UpdateProfile(context.Background(), ProfileUpdate{Email: "taken@example.com"})
		assert.EqualError(t, err, "Email already in use")
		assert.Equal(t, "asha@example.com", store.CurrentUser().Email)
	})
}

func TestStore_Logout(t *testing.T) {
	store := NewStore(nil)
	store.set("tok-1", User{Name: "Asha"})

	store.Logout()

	assert.False(t, store.LoggedIn())
	assert.Nil(t, store.CurrentUser())
}

func TestStore_ExpiresSoon(t *testing.T) {
	store := NewStore(nil)

	t.Run("No token", func(t *testing.T) {
		assert.False(t, store.ExpiresSoon(time.Hour))
	})

	t.Run("Fresh token", func(t *testing.T) {
		store.set(signedToken(t, time.Now().Add(24*time.Hour)), User{})
		assert.False(t, store.ExpiresSoon(time.Hour))
	})

	t.Run("Token inside the window", func(t *testing.T) {
		store.set(signedToken(t, time.Now().Add(10*time.Minute)), User{})
		assert.True(t, store.ExpiresSoon(time.Hour))
	})

	t.Run("Garbage token", func(t *testing.T) {
		store.set("not-a-jwt", User{})
		assert.False(t, store.ExpiresSoon(time.Hour))
	})
}
