// Package apperror normalizes every client-side failure into a single
// discriminated error value.
//
// An [AppError] carries a stable [Kind] drawn from a closed set, a human
// message, and a title suitable for an error display:
//
//	err := apperror.FromResponse(resp.StatusCode, resp.Status, resp.Header.Get("Content-Type"), body)
//	// err.Code == apperror.KindValidation, err.Message == "title too short"
//
// # Status mapping
//
//   - 401 → [KindUnauthorized]
//   - 403 → [KindForbidden]
//   - 404 → [KindNotFound]
//   - 422 → [KindValidation]
//   - 5xx → [KindServerError]
//   - anything else → [KindUnknown]
//
// # Message extraction
//
// JSON error bodies are parsed once into an untyped value and handed to an
// ordered list of [Extractor] functions; the first one that yields a message
// wins. The defaults try a non-empty "detail" string, then a non-empty
// "message" string. When none match, or the body is not JSON, the message is
// "HTTP <status> <statusText>". Parsing problems are swallowed.
//
// # Non-HTTP failures
//
// [FromUnknown] accepts any error. Transport failures and timeouts become
// [KindNetworkError], undecodable payloads become [KindUnknown]. An error that
// already contains an *AppError is returned as is, so normalizing twice is a
// no-op:
//
//	appErr := apperror.FromUnknown(err)
//	if appErr.Code == apperror.KindUnauthorized {
//	    // redirect to login
//	}
package apperror
