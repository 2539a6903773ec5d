package kimicheck

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/openai/openai-go"
	"github.com/shoenig/test/must"
)

func TestClassify(t *testing.T) {
	must.NoError(t, classify(nil))

	t.Run("unauthorized", func(t *testing.T) {
		err := classify(fmt.Errorf("list models: %w", &openai.Error{StatusCode: http.StatusUnauthorized}))
		must.ErrorIs(t, err, ErrAuthentication)
	})

	t.Run("other status", func(t *testing.T) {
		err := classify(&openai.Error{StatusCode: http.StatusTooManyRequests})

		var statusErr *StatusError
		must.True(t, errors.As(err, &statusErr))
		must.Eq(t, http.StatusTooManyRequests, statusErr.Code)
		must.False(t, errors.Is(err, ErrAuthentication))
	})

	t.Run("connection refused", func(t *testing.T) {
		err := classify(&url.Error{Op: "Get", URL: "http://127.0.0.1:1/v1/models", Err: errors.New("connection refused")})

		var networkErr *NetworkError
		must.True(t, errors.As(err, &networkErr))
	})

	t.Run("deadline", func(t *testing.T) {
		err := classify(context.DeadlineExceeded)

		var networkErr *NetworkError
		must.True(t, errors.As(err, &networkErr))
		must.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("decode", func(t *testing.T) {
		err := classify(errors.New("invalid character 'x' looking for beginning of value"))

		var decodeErr *DecodeError
		must.True(t, errors.As(err, &decodeErr))
	})
}

func TestTruncate(t *testing.T) {
	must.Eq(t, "hello...", truncate("hello", 10))
	must.Eq(t, "hel...", truncate("hello", 3))
	must.Eq(t, "当归川...", truncate("当归川芎白芍", 3))
}
