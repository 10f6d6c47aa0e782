package apperror

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Generic messages for failures that carry no server-provided text.
const (
	MessageNetwork         = "Unable to reach the server. Check your connection and try again."
	MessageInvalidResponse = "Received an invalid response from the server."
	MessageCanceled        = "The request was canceled."
)

// KindFromStatus maps an HTTP status code to an error kind.
func KindFromStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusUnprocessableEntity:
		return KindValidation
	case status >= 500 && status <= 599:
		return KindServerError
	default:
		return KindUnknown
	}
}

// FromResponse normalizes a non-2xx HTTP response.
//
// status is the numeric code; statusLine may be either the reason phrase
// ("Not Found") or the full Go status line ("404 Not Found"). The body is only
// inspected when contentType is JSON. With no extractors the defaults apply.
func FromResponse(status int, statusLine, contentType string, body []byte, extractors ...Extractor) *AppError {
	message := "HTTP " + strconv.Itoa(status) + " " + statusText(status, statusLine)

	if isJSON(contentType) {
		if len(extractors) == 0 {
			extractors = DefaultExtractors()
		}
		if m, ok := extractMessage(body, extractors); ok {
			message = m
		}
	}

	return New(KindFromStatus(status), message, WithStatus(status))
}

// FromUnknown normalizes any error. It returns nil for a nil error and the
// existing *AppError when one is already present in the chain.
func FromUnknown(err error) *AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := As(err); ok {
		return appErr
	}

	switch {
	case errors.Is(err, context.Canceled):
		return New(KindUnknown, MessageCanceled, WithCause(err))
	case isNetworkError(err):
		return New(KindNetworkError, MessageNetwork, WithCause(err))
	case isDecodeError(err):
		return New(KindUnknown, MessageInvalidResponse, WithCause(err))
	}

	message := strings.TrimSpace(err.Error())
	if message == "" {
		message = DefaultTitle(KindUnknown)
	}
	return New(KindUnknown, message, WithCause(err))
}

func statusText(status int, statusLine string) string {
	text := strings.TrimSpace(statusLine)
	if code, rest, ok := strings.Cut(text, " "); ok && code == strconv.Itoa(status) {
		text = strings.TrimSpace(rest)
	} else if text == strconv.Itoa(status) {
		text = ""
	}
	if text == "" {
		text = http.StatusText(status)
	}
	return text
}

func isJSON(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "application/json") || strings.Contains(ct, "+json")
}

func isNetworkError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, net.ErrClosed) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.EOF)
}
