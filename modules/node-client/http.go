package nodeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/go-playground/validator/v10"
	pkgerrors "github.com/pkg/errors"
)

var ErrRequestFailed = errors.New("request failed")

// RequestError carries the status and body of a non 2xx response.
type RequestError struct {
	Status     string
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return "request failed\n\tstatus: " + e.Status + "\n\tresponse: " + e.Body
}

func (e *RequestError) Is(target error) bool {
	return target == ErrRequestFailed
}

func sendRequest[T any](
	client *http.Client,
	request *http.Request,
	validators ...func(*T) error,
) (*T, error) {
	res, err := client.Do(request)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		buf := bytes.Buffer{}
		if _, err := io.Copy(&buf, res.Body); err != nil {
			return nil, pkgerrors.Wrap(err, "failed to decode error message")
		}
		return nil, &RequestError{
			Status:     res.Status,
			StatusCode: res.StatusCode,
			Body:       buf.String(),
		}
	}

	buf := new(T)
	if err := json.NewDecoder(res.Body).Decode(buf); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to decode response")
	}

	for _, v := range validators {
		if err := v(buf); err != nil {
			return nil, err
		}
	}

	return buf, nil
}

// structValidator checks a decoded struct against its validate tags.
func structValidator[T any](v *validator.Validate) func(*T) error {
	return func(t *T) error {
		return v.Struct(t)
	}
}

func makeUrl(base *url.URL, segments ...string) *url.URL {
	return base.JoinPath(segments...)
}

func makeRequest(
	ctx context.Context,
	method string,
	url *url.URL,
	body any,
) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url.String(), reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Add("Content-Type", "application/json")
	}
	return req, nil
}
